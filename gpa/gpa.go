// Package gpa implements the grade-point arithmetic: the marks-to-point
// table, credit-weighted SGPA, and the cumulative CGPA merge.
package gpa

// Graded is one subject's contribution: obtained marks (0-100) and the credit
// weight of the subject. Subjects with no credits assigned yet contribute
// nothing.
type Graded struct {
	Marks   int
	Credits int
}

// GradePoint maps marks to the 10-point scale.
func GradePoint(marks int) int {
	switch {
	case marks >= 90:
		return 10
	case marks >= 80:
		return 9
	case marks >= 70:
		return 8
	case marks >= 60:
		return 7
	case marks >= 50:
		return 6
	case marks >= 40:
		return 5
	default:
		return 0
	}
}

// SGPA is the credit-weighted mean of grade points for one semester. Zero
// total credits yields zero, not a division failure.
func SGPA(graded []Graded) float64 {
	var (
		credits  int
		weighted float64
	)

	for _, g := range graded {
		if g.Credits <= 0 {
			continue
		}

		weighted += float64(GradePoint(g.Marks) * g.Credits)
		credits += g.Credits
	}

	if credits == 0 {
		return 0
	}

	return weighted / float64(credits)
}

// Credits sums the credit weights that actually count towards SGPA.
func Credits(graded []Graded) int {
	var credits int
	for _, g := range graded {
		if g.Credits > 0 {
			credits += g.Credits
		}
	}

	return credits
}

// MergeCGPA folds a freshly computed semester into the running cumulative
// value: both sides are weighted by the credits they cover.
func MergeCGPA(cgpa float64, completed int, sgpa float64, semCredits int) (float64, int) {
	if completed+semCredits == 0 {
		return sgpa, semCredits
	}

	merged := (cgpa*float64(completed) + sgpa*float64(semCredits)) / float64(completed+semCredits)

	return merged, completed + semCredits
}
