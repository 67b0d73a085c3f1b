// Command contract_probe calls the read endpoints of a running institution backend
// through the gateway's typed client and reports which payloads no longer decode.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/noah-isme/campus-console/internal/backend"
	"github.com/noah-isme/campus-console/internal/models"
	"github.com/noah-isme/campus-console/pkg/apiclient"
)

type probe struct {
	Name     string
	Route    string
	Critical bool
	Call     func(ctx context.Context) (string, error)
}

type result struct {
	Probe    probe
	Summary  string
	Err      error
	Duration time.Duration
}

func main() {
	var (
		base      string
		studentID string
		adminID   string
		password  string
		timeout   time.Duration
	)

	flag.StringVar(&base, "backend", "http://localhost:3001", "Institution backend base URL")
	flag.StringVar(&studentID, "student", "", "Student id used for the per-student routes")
	flag.StringVar(&adminID, "admin", "", "Admin id used to probe login (optional)")
	flag.StringVar(&password, "password", "", "Password for -admin")
	flag.DurationVar(&timeout, "timeout", 5*time.Second, "HTTP client timeout")
	flag.Parse()

	client := backend.New(apiclient.New(apiclient.Options{BaseURL: base, Timeout: timeout}))
	probes := buildProbes(client, studentID, adminID, password)
	if len(probes) == 0 {
		log.Fatal("nothing to probe")
	}

	var results []result
	breaking := 0
	for _, p := range probes {
		res := run(p, timeout)
		if res.Err != nil && p.Critical {
			breaking++
		}
		results = append(results, res)
	}

	printReport(results)

	fmt.Printf("Breaking failures: %d\n", breaking)
	if breaking > 0 {
		os.Exit(1)
	}
}

func buildProbes(c *backend.Client, studentID, adminID, password string) []probe {
	probes := []probe{
		{Name: "students", Route: backend.RouteStudents, Critical: true, Call: func(ctx context.Context) (string, error) {
			students, err := c.ListStudents(ctx)
			return fmt.Sprintf("%d students", len(students)), err
		}},
		{Name: "average gpa", Route: backend.RouteAverageGPA, Call: func(ctx context.Context) (string, error) {
			avg, err := c.AverageGPA(ctx)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("valid=%t", avg.AverageSGPA.Valid), nil
		}},
		{Name: "admin stats", Route: backend.RouteAdminStats, Critical: true, Call: func(ctx context.Context) (string, error) {
			stats, err := c.AdminDashboardStats(ctx)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("%d students, %d courses", stats.TotalStudents, stats.ActiveCourses), nil
		}},
		{Name: "courses overview", Route: backend.RouteCoursesOverview, Critical: true, Call: func(ctx context.Context) (string, error) {
			overview, err := c.CoursesOverview(ctx)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("%d courses", len(overview.Courses)), nil
		}},
		{Name: "enrollment data", Route: backend.RouteEnrollmentData, Critical: true, Call: func(ctx context.Context) (string, error) {
			data, err := c.EnrollmentData(ctx)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("%d courses, %d semesters", len(data.Courses), len(data.Semesters)), nil
		}},
		{Name: "reports data", Route: backend.RouteReportsData, Call: func(ctx context.Context) (string, error) {
			data, err := c.ReportsData(ctx)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("%d trend points", len(data.EnrollmentTrend)), nil
		}},
	}

	if studentID != "" {
		probes = append(probes,
			probe{Name: "student detail", Route: backend.RouteStudent, Critical: true, Call: func(ctx context.Context) (string, error) {
				detail, err := c.StudentDetail(ctx, studentID)
				if err != nil {
					return "", err
				}
				return detail.Student.FullName(), nil
			}},
			probe{Name: "current grades", Route: backend.RouteCurrentGrades, Call: func(ctx context.Context) (string, error) {
				_, err := c.CurrentGrades(ctx, studentID)
				return "decoded", err
			}},
			probe{Name: "current attendance", Route: backend.RouteCurrentAttendance, Call: func(ctx context.Context) (string, error) {
				_, err := c.CurrentAttendance(ctx, studentID)
				return "decoded", err
			}},
		)
	}

	if adminID != "" {
		probes = append(probes, probe{Name: "login", Route: backend.RouteLogin, Critical: true, Call: func(ctx context.Context) (string, error) {
			resp, err := c.Login(ctx, models.LoginRequest{UserID: adminID, Password: password, Role: models.RoleAdmin})
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("%d byte user object", len(resp.User)), nil
		}})
	}
	return probes
}

func run(p probe, timeout time.Duration) result {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	start := time.Now()
	summary, err := p.Call(ctx)
	return result{Probe: p, Summary: summary, Err: err, Duration: time.Since(start)}
}

func printReport(results []result) {
	fmt.Println("Backend Contract Report")
	fmt.Println("=======================")
	for _, res := range results {
		status := "OK"
		if res.Err != nil {
			status = "FAIL"
		}
		fmt.Printf("[%s] %s %s (%s)\n", status, res.Probe.Name, res.Probe.Route, res.Duration.Round(time.Millisecond))
		if res.Err != nil {
			fmt.Printf("  Error: %v | Critical: %t\n", res.Err, res.Probe.Critical)
		} else {
			fmt.Printf("  %s\n", res.Summary)
		}
	}
}
