package devserver

import (
	"fmt"
	"time"

	"github.com/five82/odonto/internal/api"
)

var seedEpoch = time.Date(2024, time.February, 1, 8, 30, 0, 0, time.UTC)

var caseTitles = []string{
	"Implant placement", "Crown preparation", "Root canal retreatment",
	"Orthodontic aligners", "Periodontal surgery", "Veneer bonding",
	"Wisdom tooth extraction", "Bridge cementation", "Bone graft",
	"Pediatric pulpotomy", "Occlusal splint", "Gingival graft",
}

var userNames = []string{
	"Ana Lima", "Bruno Costa", "Carla Mendes", "Diego Rocha", "Elisa Prado",
	"Fábio Nunes", "Gabriela Reis", "Heitor Alves", "Isabela Moura",
	"João Teixeira", "Karina Duarte", "Lucas Barros", "Marina Pires",
}

var activityKinds = []string{"Quiz", "Case discussion", "Video review", "Practical assessment"}

// seed builds a deterministic data set large enough to page through.
func seed() ([]api.User, []api.Case, []api.Activity) {
	users := make([]api.User, 0, len(userNames))
	for i, name := range userNames {
		created := seedEpoch.Add(time.Duration(i) * 36 * time.Hour)
		users = append(users, api.User{
			ID:        int64(i + 1),
			Name:      name,
			Email:     fmt.Sprintf("user%02d@odonto.test", i+1),
			Manager:   i%4 == 0,
			Active:    i%5 != 4,
			CreatedAt: created.Format(time.RFC3339),
			UpdatedAt: created.Add(48 * time.Hour).Format(time.RFC3339),
		})
	}

	var cases []api.Case
	for i := range 37 {
		created := seedEpoch.Add(time.Duration(i) * 19 * time.Hour)
		title := caseTitles[i%len(caseTitles)]
		if i >= len(caseTitles) {
			title = fmt.Sprintf("%s %d", title, i/len(caseTitles)+1)
		}
		teacher := users[(i*3)%len(users)]
		cases = append(cases, api.Case{
			ID:          int64(i + 1),
			Title:       title,
			Description: "Clinical case for " + title,
			Shared:      i%3 == 0,
			Active:      i%7 != 6,
			CreatedAt:   created.Format(time.RFC3339),
			UpdatedAt:   created.Add(5 * time.Hour).Format(time.RFC3339),
			Teacher:     &api.User{ID: teacher.ID},
			Videos:      make([]api.VideoCase, i%3),
		})
	}

	var activities []api.Activity
	for i := range 23 {
		c := cases[(i*5)%len(cases)]
		created := seedEpoch.Add(time.Duration(i) * 27 * time.Hour)
		activities = append(activities, api.Activity{
			ID:        int64(i + 1),
			Title:     fmt.Sprintf("%s #%d", activityKinds[i%len(activityKinds)], i+1),
			CaseID:    c.ID,
			CaseTitle: c.Title,
			Active:    i%6 != 5,
			CreatedAt: created.Format(time.RFC3339),
			UpdatedAt: created.Format(time.RFC3339),
		})
	}
	return users, cases, activities
}
