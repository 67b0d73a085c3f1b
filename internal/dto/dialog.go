package dto

// OpenDialogRequest names the record a dialog targets. Add dialogs ignore it.
type OpenDialogRequest struct {
	ID string `json:"id" form:"id"`
}

// ViewClosedResponse reports the outcome of a back navigation.
type ViewClosedResponse struct {
	View    string `json:"view"`
	Mounted bool   `json:"mounted"`
}
