package dto

// AuditQuery bounds the audit listing.
type AuditQuery struct {
	Limit int `form:"limit"`
}
