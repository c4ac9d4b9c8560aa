package questlog

import "fmt"

// builtin describes one catalogue entry; quests are expanded by BuiltinTemplates.
type builtin struct {
	id, name, description string
	quests                []builtinQuest
}

type builtinQuest struct {
	id, title, description string
	objectives             []string
}

var catalogue = []builtin{
	{
		id: "daily-tasks", name: "Daily Tasks",
		description: "A template for tracking daily tasks and routines",
		quests: []builtinQuest{
			{"morning-routine", "Morning Routine", "Complete your morning routine to start the day right", []string{
				"Wake up at 6:30 AM", "Drink water", "Exercise for 15 minutes", "Eat breakfast", "Plan your day"}},
			{"work-tasks", "Work Tasks", "Complete your work tasks for the day", []string{
				"Check emails", "Attend daily meeting", "Complete primary task", "Follow up with team"}},
			{"evening-routine", "Evening Routine", "Wind down and prepare for tomorrow", []string{
				"Review today's accomplishments", "Prepare for tomorrow", "Read for 30 minutes", "Sleep by 10:30 PM"}},
		},
	},
	{
		id: "fitness-journey", name: "Fitness Journey",
		description: "Track your fitness goals and progress",
		quests: []builtinQuest{
			{"strength-training", "Strength Training", "Build strength through regular weight training", []string{
				"Upper body workout (2x per week)", "Lower body workout (2x per week)", "Increase bench press by 10%", "Master proper squat form"}},
			{"cardio-endurance", "Cardio & Endurance", "Improve cardiovascular health and endurance", []string{
				"Run 5k without stopping", "30 minutes of cardio (3x per week)", "Try a new cardio activity"}},
			{"nutrition", "Nutrition", "Maintain a balanced diet to fuel your fitness journey", []string{
				"Track macros for 2 weeks", "Meal prep weekly", "Drink 2L of water daily", "Reduce processed food intake"}},
		},
	},
	{
		id: "project-management", name: "Project Management",
		description: "Organize and track your work projects",
		quests: []builtinQuest{
			{"project-planning", "Project Planning", "Set up the foundation for your project", []string{
				"Define project scope", "Create timeline", "Assign responsibilities", "Set up tracking system"}},
			{"execution-phase", "Execution Phase", "Implement the project plan", []string{
				"Complete first milestone", "Weekly progress reviews", "Address blockers", "Update stakeholders"}},
		},
	},
	{
		id: "algebra-2", name: "10th Grade Algebra II",
		description: "A comprehensive curriculum for 10th grade Algebra II",
		quests: []builtinQuest{
			{"linear-equations", "Linear Equations and Inequalities", "Master solving and graphing linear equations and inequalities in one and two variables.", []string{
				"Solve linear equations with variables on both sides", "Graph linear equations using slope-intercept form", "Solve systems of linear equations", "Solve and graph linear inequalities", "Complete linear word problems"}},
			{"quadratic-functions", "Quadratic Functions", "Understand and work with quadratic functions and their applications.", []string{
				"Graph quadratic functions", "Find zeros using factoring", "Apply the quadratic formula", "Complete the square", "Solve quadratic word problems"}},
			{"polynomials", "Polynomials and Rational Expressions", "Learn to manipulate and solve polynomial and rational expressions.", []string{
				"Add, subtract, and multiply polynomials", "Factor polynomials", "Simplify rational expressions", "Solve polynomial equations", "Graph polynomial functions"}},
			{"exponential-logarithmic", "Exponential and Logarithmic Functions", "Explore exponential growth/decay and logarithmic relationships.", []string{
				"Evaluate exponential expressions", "Graph exponential functions", "Convert between exponential and logarithmic forms", "Solve logarithmic equations", "Apply exponential models to real-world scenarios"}},
		},
	},
	{
		id: "geometry", name: "High School Geometry",
		description: "A structured curriculum for high school geometry",
		quests: []builtinQuest{
			{"basic-concepts", "Basic Geometric Concepts", "Learn the fundamental concepts and vocabulary of geometry.", []string{
				"Identify points, lines, planes, and angles", "Measure and classify angles", "Understand parallel and perpendicular lines", "Apply the coordinate system", "Use geometric notation correctly"}},
			{"triangles", "Triangles and Congruence", "Explore properties of triangles and methods to prove congruence.", []string{
				"Classify triangles by sides and angles", "Apply the triangle sum theorem", "Prove triangles congruent using SSS, SAS, ASA, and AAS", "Use triangle congruence to solve problems", "Understand and apply the Pythagorean theorem"}},
			{"similarity", "Similarity and Proportions", "Understand similar figures and proportional relationships.", []string{
				"Identify similar triangles", "Apply the AA similarity criterion", "Use proportions to find missing measurements", "Apply similarity to real-world problems", "Understand scale factors and their effects"}},
			{"circles", "Circles and Their Properties", "Explore the properties and theorems related to circles.", []string{
				"Identify parts of a circle (radius, diameter, chord, arc)", "Apply the inscribed angle theorem", "Find arc lengths and sector areas", "Write the equation of a circle", "Solve problems involving tangent lines"}},
			{"area-volume", "Area and Volume", "Calculate measurements of two and three-dimensional figures.", []string{
				"Find areas of triangles, quadrilaterals, and circles", "Calculate surface areas of 3D figures", "Determine volumes of prisms, pyramids, cylinders, and spheres", "Apply area and volume formulas to composite figures", "Solve real-world measurement problems"}},
		},
	},
	{
		id: "precalculus", name: "11th Grade Pre-Calculus",
		description: "A comprehensive curriculum for 11th grade Pre-Calculus",
		quests: []builtinQuest{
			{"functions", "Functions and Their Graphs", "Analyze various functions and their graphical representations.", []string{
				"Identify function types and their characteristics", "Find domains and ranges", "Perform function transformations", "Compose functions and find inverses", "Analyze piecewise functions"}},
			{"trigonometry", "Trigonometric Functions", "Explore the properties and applications of trigonometric functions.", []string{
				"Convert between degrees and radians", "Evaluate the six trigonometric functions", "Graph sine, cosine, and tangent functions", "Apply trigonometric identities", "Solve trigonometric equations"}},
			{"vectors", "Vectors and Parametric Equations", "Work with vectors and parametric representations in two and three dimensions.", []string{
				"Perform vector operations", "Find dot and cross products", "Write parametric equations", "Convert between parametric and rectangular forms", "Apply vectors to physics problems"}},
			{"conic-sections", "Conic Sections", "Study the properties and equations of circles, ellipses, parabolas, and hyperbolas.", []string{
				"Identify and graph circles", "Analyze ellipses and their properties", "Work with parabolas in various forms", "Understand hyperbolas and their asymptotes", "Convert between general and standard forms"}},
			{"limits-intro", "Introduction to Limits", "Begin exploring the foundational concept of calculus: limits.", []string{
				"Evaluate limits graphically", "Find limits algebraically", "Understand one-sided limits", "Identify when limits do not exist", "Apply the squeeze theorem"}},
		},
	},
}

// BuiltinTemplates returns a fresh copy of the seed catalogue with every
// created/updated stamp set to now.
func BuiltinTemplates(now string) []*Template {
	out := make([]*Template, 0, len(catalogue))
	for _, b := range catalogue {
		t := &Template{ID: b.id, Name: b.name, Description: b.description, Quests: make([]Quest, 0, len(b.quests)), Created: now, Updated: now}
		for _, q := range b.quests {
			objs := make([]Objective, len(q.objectives))
			for i, title := range q.objectives {
				objs[i] = Objective{ID: fmt.Sprintf("obj%d", i+1), Title: title}
			}
			t.Quests = append(t.Quests, Quest{ID: q.id, Title: q.title, Description: q.description, Objectives: objs, Created: now, Updated: now})
		}
		out = append(out, t)
	}
	return out
}
