package portal

func boolPtr(b bool) *bool { return &b }

func defaultCourses() []Course {
	return []Course{
		{
			ID:          "1",
			Code:        "COS202",
			Name:        "Computer Programming II",
			Description: "Introduction to programming concepts using Python. Covers basic syntax, data structures, and algorithms.",
			CreditHours: 3,
		},
		{
			ID:          "2",
			Code:        "CS201",
			Name:        "Network Security",
			Description: "Advanced network security protocols, intrusion detection systems, and network forensics.",
			CreditHours: 4,
		},
		{
			ID:          "3",
			Code:        "FUD-CYB202",
			Name:        "Threats Attacks and Vulnerabilities",
			Description: "Comprehensive study of various types of cyber threats, attack vectors, and vulnerabilities in systems.",
			CreditHours: 2,
		},
		{
			ID:          "4",
			Code:        "FUD-CYB204",
			Name:        "Linux System Administration",
			Description: "In-depth exploration of Linux operating system, including installation, configuration, and administration tasks.",
			CreditHours: 3,
		},
		{
			ID:          "5",
			Code:        "GST223",
			Name:        "Introduction to Entrepreneurship Studies",
			Description: "Hands-on experience with entrepreneurial thinking, business model development, and startup methodologies.",
			CreditHours: 3,
		},
	}
}

func defaultNewsletters() []Newsletter {
	return []Newsletter{
		{
			ID:      "1",
			Title:   "Cybersecurity Awareness Month",
			Content: "October is recognized as National Cybersecurity Awareness Month. Join us for various workshops and seminars to enhance your cybersecurity knowledge.",
			Author:  "Dr. ",
			Date:    "2024-10-01",
		},
		{
			ID:      "2",
			Title:   "New Research Lab Opening",
			Content: "We are excited to announce the opening of our new Advanced Cyber Defense Research Lab, equipped with state-of-the-art tools and technologies.",
			Author:  "Prof. ",
			Date:    "2024-09-15",
		},
	}
}

func defaultEvents() []Event {
	return []Event{
		{
			ID:          "1",
			Title:       "Cybersecurity Conference 2024",
			Description: "Annual cybersecurity conference featuring industry experts and research presentations.",
			Date:        "2024-11-15",
			Type:        EventTypeEvent,
			Important:   boolPtr(true),
		},
		{
			ID:          "2",
			Title:       "Final Exam Schedule Released",
			Description: "Final examination schedule for Fall 2024 semester is now available.",
			Date:        "2024-10-20",
			Type:        EventTypeNotice,
			Important:   boolPtr(true),
		},
	}
}

func defaultTimetable() []Timetable {
	return []Timetable{
		{
			ID:         "1",
			CourseCode: "FUD-CYB 204",
			CourseName: "Introduction to Cybersecurity",
			Day:        "Monday",
			Time:       "09:00-10:30",
			Room:       "Room 101",
			Lecturer:   "Prof. Michael Chen",
		},
		{
			ID:         "2",
			CourseCode: "CSC 202",
			CourseName: "Network Security",
			Day:        "Tuesday",
			Time:       "11:00-12:30",
			Room:       "Room 102",
			Lecturer:   "Dr. ",
		},
	}
}

func defaultGallery() []GalleryImage {
	const placeholder = "/placeholder.svg"
	return []GalleryImage{
		{
			ID:          "1",
			URL:         placeholder,
			Title:       "Cybersecurity Conference 2024",
			Description: "Annual cybersecurity conference featuring industry experts and research presentations.",
			Date:        "2024-03-15",
		},
		{
			ID:          "2",
			URL:         placeholder,
			Title:       "Research Lab Opening",
			Description: "Grand opening of our new Advanced Cyber Defense Research Lab.",
			Date:        "2024-02-20",
		},
		{
			ID:          "3",
			URL:         placeholder,
			Title:       "Student Graduation 2024",
			Description: "Celebrating our cybersecurity graduates and their achievements.",
			Date:        "2024-01-10",
		},
		{
			ID:          "4",
			URL:         placeholder,
			Title:       "Ethical Hacking Workshop",
			Description: "Hands-on workshop on ethical hacking and penetration testing.",
			Date:        "2023-12-05",
		},
		{
			ID:          "5",
			URL:         placeholder,
			Title:       "Industry Partnership Signing",
			Description: "Signing ceremony with leading cybersecurity companies for internship programs.",
			Date:        "2023-11-18",
		},
		{
			ID:          "6",
			URL:         placeholder,
			Title:       "Faculty Research Showcase",
			Description: "Faculty presenting their latest research findings in cybersecurity.",
			Date:        "2023-10-30",
		},
	}
}
