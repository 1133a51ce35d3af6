package server

import (
	"fmt"
	"time"
)

var (
	departments = []string{"Engineering", "Marketing", "Sales", "Human Resources", "Finance"}
	firstNames  = []string{"Ada", "Grace", "Alan", "Edsger", "Barbara", "Donald", "Frances", "Ken", "Margaret", "Linus", "Radia", "John"}
	lastNames   = []string{"Lovelace", "Hopper", "Turing", "Dijkstra", "Liskov", "Knuth", "Allen", "Thompson", "Hamilton", "Torvalds", "Perlman", "Backus"}
)

const seedBaseYear = 2015

// SeedEmployees generates n employees with ids 1..n. Every field is derived from
// the id so repeated seeds produce identical data.
func SeedEmployees(n int) []Employee {
	out := make([]Employee, 0, n)
	for i := 1; i <= n; i++ {
		id := int64(i)
		out = append(out, Employee{
			ID:        id,
			FirstName: firstNames[i%len(firstNames)],
			LastName:  lastNames[(i/len(firstNames))%len(lastNames)],
			BirthDate: time.Date(1960+i%40, time.Month(i%12+1), i%28+1, 0, 0, 0, 0, time.UTC).Format(time.DateOnly),
			Profile:   seedProfile(id),
		})
	}
	return out
}

func seedProfile(id int64) Profile {
	dept := departments[id%int64(len(departments))]
	hire := fmt.Sprintf("%d-%02d-%02d", seedBaseYear+id%8, id%12+1, id%28+1)

	bio := fmt.Sprintf("Employee #%d has been a valuable member of the %s department since their hire. "+
		"Known for dedication and a collaborative spirit.", id, dept)
	if id%3 == 0 {
		bio = fmt.Sprintf("Employee #%d joined our team on %s and has since become an integral part of the %s department.\n\n"+
			"Throughout their tenure, Employee #%d has consistently demonstrated exceptional skills in project management "+
			"and cross-functional team leadership.\n\n"+
			"Colleagues describe Employee #%d as a proactive problem-solver, always willing to lend a hand and share their expertise.",
			id, hire, dept, id, id)
	}

	return Profile{
		Department:  dept,
		Email:       fmt.Sprintf("employee%d@example.com", id),
		PhoneNumber: fmt.Sprintf("555-01%02d", id%100),
		HireDate:    hire,
		Bio:         bio,
	}
}
