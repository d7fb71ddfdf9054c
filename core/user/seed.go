package user

// DemoAccounts returns the bootstrap accounts, one per role, installed when the directory does not exist yet.
func DemoAccounts() []Account {
	return []Account{
		{
			User: User{
				ID:         "1",
				Username:   "student123",
				Email:      "student@cybersec.edu",
				Role:       RoleStudent,
				Name:       "Jamilu Yusuf Musa",
				Department: "Cyber Security",
				StudentID:  "CS2024001",
			},
			Password: "student123",
		},
		{
			User: User{
				ID:         "2",
				Username:   "staff123",
				Email:      "staff@cybersec.edu",
				Role:       RoleStaff,
				Name:       "Dr. Department Staff",
				Department: "Cyber Security",
				StaffID:    "STF001",
			},
			Password: "staff123",
		},
		{
			User: User{
				ID:         "3",
				Username:   "lecturer123",
				Email:      "lecturer@cybersec.edu",
				Role:       RoleLecturer,
				Name:       "Prof. Department Lecturer",
				Department: "Cyber Security",
				StaffID:    "LEC001",
				Courses:    []string{"CS101", "CS201", "CS301"},
			},
			Password: "lecturer123",
		},
	}
}
