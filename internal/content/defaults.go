package content

import "github.com/calder/folio/internal/models"

// Defaults returns the built-in seed content used when no snapshot file is
// configured. It is placeholder material meant to be replaced through the
// admin surface or a seed snapshot.
func Defaults() *Snapshot {
	profile := models.Profile{
		Name:     "Alex Doe",
		Role:     "Software Engineer",
		Location: "Remote",
		Phone:    "+1-555-0100",
		Email:    "alex@example.com",
		Summary: "Engineer focused on data tooling and small, reliable services. " +
			"Replace this profile through the settings dashboard or a seed snapshot.",
		Status: "Available for roles",
		Avatar: "https://picsum.photos/seed/folio/600/600",
	}

	skills := []models.Skill{
		{ID: 1, Name: "Python & Pandas", Level: 90},
		{ID: 2, Name: "SQL", Level: 85},
		{ID: 3, Name: "Data Visualization", Level: 80},
		{ID: 4, Name: "Machine Learning Basics", Level: 70},
	}

	experiences := []models.Experience{
		{
			ID:      1,
			Role:    "Data Analytics Intern",
			Company: "Example Corp",
			Period:  "Jul 2025 – Sep 2025 (Remote)",
			Description: []string{
				"Built automated reporting dashboards, cutting manual work by a third.",
				"Defined KPIs that shortened decision cycles for the HR team.",
			},
		},
	}

	educations := []models.Education{
		{
			ID:          1,
			Degree:      "B.E. Computer Science",
			School:      "Example Institute of Technology",
			Period:      "2021 – 2025",
			Description: "Focused on data analytics, databases, and AI.",
		},
	}

	projects := []models.Project{
		{
			ID:    1,
			Title: "Analytics Dashboard",
			Tech:  []string{"Power BI", "Excel", "DAX"},
			Description: []string{
				"Tracked workforce metrics across attrition, hiring, and demographics.",
				"Automated spreadsheet preprocessing and measure calculation.",
			},
			Image:  "https://picsum.photos/id/0/800/600",
			Link:   "#",
			GitHub: "https://github.com",
		},
		{
			ID:    2,
			Title: "Loan Report Dashboard",
			Tech:  []string{"MySQL", "Power BI", "SQL"},
			Description: []string{
				"Cleaned and transformed several thousand financial records with SQL.",
				"Visualized approval trends, repayment behavior, and KPI comparisons.",
			},
			Image: "https://picsum.photos/id/20/800/600",
			Link:  "#",
		},
	}

	certifications := []models.Certification{
		{ID: 1, Name: "Python Programming", Issuer: "Example Academy", Year: "2025"},
		{ID: 2, Name: "Data Analytics Job Simulation", Issuer: "Example Partner", Year: "2025"},
	}

	return &Snapshot{
		Profile:        &profile,
		Skills:         &skills,
		Experiences:    &experiences,
		Educations:     &educations,
		Projects:       &projects,
		Certifications: &certifications,
	}
}
