package directory

type demoUser struct {
	name, email, bio string
	year             int
	skills           []string
}

var demoRoster = []demoUser{
	{"Priya Sharma", "priya@demo.com", "2x hackathon winner. Love building clean UIs.", 3, []string{"React", "TypeScript", "Tailwind CSS", "Figma"}},
	{"Rohit Kumar", "rohit@demo.com", "Backend dev. Built 3 production APIs.", 4, []string{"Node.js", "Express", "MongoDB", "PostgreSQL"}},
	{"Sneha Mehta", "sneha@demo.com", "MBA aspirant. Won 2 case competitions.", 3, []string{"Business Strategy", "Figma", "UI/UX", "Pitch Decks"}},
	{"Aditya Singh", "aditya@demo.com", "ML enthusiast. Kaggle contributor.", 2, []string{"Python", "Machine Learning", "TensorFlow", "Data Science"}},
	{"Neha Gupta", "neha@demo.com", "Mobile-first dev. 2 apps on Play Store.", 3, []string{"React Native", "Flutter", "JavaScript", "Firebase"}},
	{"Vikram Joshi", "vikram@demo.com", "Full-stack with cloud experience.", 4, []string{"Java", "Spring Boot", "Docker", "AWS"}},
	{"Ananya Reddy", "ananya@demo.com", "Backend dev. Open source contributor.", 2, []string{"Python", "Django", "REST APIs", "PostgreSQL"}},
	{"Karan Patel", "karan@demo.com", "Full-stack JS dev. Real-time apps.", 3, []string{"React", "Next.js", "Node.js", "GraphQL"}},
	{"Ishita Das", "ishita@demo.com", "Design-first thinker.", 3, []string{"UI/UX Design", "Figma", "Adobe XD", "User Research"}},
	{"Arjun Verma", "arjun@demo.com", "Infra guy. Makes things fast.", 4, []string{"Go", "Rust", "Kubernetes", "Systems Programming"}},
	{"Riya Chopra", "riya@demo.com", "Frontend beginner. Quick learner.", 2, []string{"HTML/CSS", "JavaScript", "Bootstrap"}},
	{"Manish Tiwari", "manish@demo.com", "CV researcher.", 3, []string{"Python", "OpenCV", "Deep Learning", "Computer Vision"}},
	{"Divya Nair", "divya@demo.com", "MERN stack dev.", 3, []string{"React", "Redux", "Node.js", "MongoDB"}},
	{"Saurabh Mishra", "saurabh@demo.com", "Web3 builder.", 4, []string{"Blockchain", "Solidity", "Web3.js"}},
	{"Pooja Saxena", "pooja@demo.com", "Handles docs, pitch, and marketing.", 2, []string{"Content Writing", "Marketing", "SEO", "Canva"}},
	{"Rahul Bhatt", "rahul@demo.com", "Codeforces expert.", 3, []string{"C++", "Competitive Programming", "DSA", "Python"}},
}

// DemoUsers returns the built-in demo roster with stable IDs.
func DemoUsers() []User {
	users := make([]User, 0, len(demoRoster))
	for _, d := range demoRoster {
		users = append(users, User{
			ID:           UserIDFor(d.email),
			Name:         d.name,
			Email:        d.email,
			Bio:          d.bio,
			College:      "BIT Mesra",
			Year:         d.year,
			Skills:       append([]string(nil), d.skills...),
			Availability: AvailabilityAvailable,
		})
	}
	return users
}
