package app

import "shot-coach/internal/domain/entity"

// MajorityVote возвращает самую частую метку. При равенстве побеждает метка,
// чей первый голос встретился раньше. Без голосов — entity.UnknownShot.
func MajorityVote(votes []string) string {
	if len(votes) == 0 {
		return entity.UnknownShot
	}

	counts := make(map[string]int, 8)
	order := make([]string, 0, 8)
	for _, v := range votes {
		if _, seen := counts[v]; !seen {
			order = append(order, v)
		}
		counts[v]++
	}

	best := order[0]
	for _, label := range order[1:] {
		if counts[label] > counts[best] {
			best = label
		}
	}
	return best
}
