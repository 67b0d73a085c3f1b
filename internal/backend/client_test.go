package backend

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-console/internal/models"
	"github.com/noah-isme/campus-console/pkg/apiclient"
	appErrors "github.com/noah-isme/campus-console/pkg/errors"
)

func fakeBackend(t *testing.T, register func(r *gin.Engine)) *Client {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	register(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return New(apiclient.New(apiclient.Options{BaseURL: srv.URL}))
}

func TestListStudentsDecodesNumericStrings(t *testing.T) {
	client := fakeBackend(t, func(r *gin.Engine) {
		r.GET("/api/students", func(c *gin.Context) {
			c.Data(http.StatusOK, "application/json", []byte(`[
				{"student_id":"STU1","first_name":"Asha","last_name":"Rao","email":"a@x.edu","department":"IT","current_year":"2","status":"Active"},
				{"student_id":"STU2","first_name":"Ben","last_name":"Lee","email":"b@x.edu","department":"CMPN","current_year":3,"status":"Inactive"}
			]`))
		})
	})

	students, err := client.ListStudents(context.Background())

	require.NoError(t, err)
	require.Len(t, students, 2)
	assert.Equal(t, 2, students[0].CurrentYear.Int())
	assert.Equal(t, 3, students[1].CurrentYear.Int())
	assert.Equal(t, "Asha Rao", students[0].FullName())
}

func TestCreateStudentOmitsEmptyStatus(t *testing.T) {
	var received map[string]interface{}
	client := fakeBackend(t, func(r *gin.Engine) {
		r.POST("/api/students", func(c *gin.Context) {
			require.NoError(t, c.ShouldBindJSON(&received))
			c.JSON(http.StatusCreated, gin.H{"student_id": received["student_id"], "status": "Active"})
		})
	})

	created, err := client.CreateStudent(context.Background(), models.StudentDraft{
		StudentID:   "STU2025001",
		FirstName:   "Ria",
		LastName:    "Shah",
		Email:       "ria@x.edu",
		Department:  models.DepartmentIT,
		CurrentYear: 1,
	})

	require.NoError(t, err)
	assert.Equal(t, models.StudentActive, created.Status)
	_, hasStatus := received["status"]
	assert.False(t, hasStatus)
}

func TestDeleteStudentEscapesID(t *testing.T) {
	var gotPath string
	client := fakeBackend(t, func(r *gin.Engine) {
		r.DELETE("/api/students/:id", func(c *gin.Context) {
			gotPath = c.Param("id")
			c.JSON(http.StatusOK, gin.H{"message": "deleted"})
		})
	})

	msg, err := client.DeleteStudent(context.Background(), "STU 1")

	require.NoError(t, err)
	assert.Equal(t, "deleted", msg.Message)
	assert.Equal(t, "STU 1", gotPath)
}

func TestDeleteStudentSurfacesServerMessage(t *testing.T) {
	client := fakeBackend(t, func(r *gin.Engine) {
		r.DELETE("/api/students/:id", func(c *gin.Context) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot delete student with existing enrollments"})
		})
	})

	_, err := client.DeleteStudent(context.Background(), "STU1")

	assert.Equal(t, "Cannot delete student with existing enrollments", appErrors.DisplayMessage(err))
}

func TestUpdateCoursePinsPathID(t *testing.T) {
	var body models.CourseDraft
	client := fakeBackend(t, func(r *gin.Engine) {
		r.PUT("/api/courses/:id", func(c *gin.Context) {
			require.NoError(t, c.ShouldBindJSON(&body))
			c.JSON(http.StatusOK, gin.H{"course_id": c.Param("id")})
		})
	})

	_, err := client.UpdateCourse(context.Background(), "CS101", models.CourseDraft{CourseID: "OTHER", CourseName: "Intro"})

	require.NoError(t, err)
	assert.Equal(t, "CS101", body.CourseID)
}

func TestStudentSectionsUseStudentID(t *testing.T) {
	client := fakeBackend(t, func(r *gin.Engine) {
		r.GET("/api/grades/:id/current", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"summary": gin.H{"currentSgpa": "8.4", "totalCredits": 20}})
		})
		r.GET("/api/attendance/:id/current", func(c *gin.Context) {
			c.JSON(http.StatusNotFound, gin.H{"message": "no attendance for " + c.Param("id")})
		})
	})

	grades, err := client.CurrentGrades(context.Background(), "STU9")
	require.NoError(t, err)
	assert.InDelta(t, 8.4, grades.Summary.CurrentSGPA.Value, 0.0001)

	_, err = client.CurrentAttendance(context.Background(), "STU9")
	assert.Equal(t, "no attendance for STU9", appErrors.DisplayMessage(err))
}
