package directory

import (
	"context"
	"fmt"
	"log"
	"math/rand"

	"github.com/CijeTheCreator/consultify/internal/common"
	"github.com/CijeTheCreator/consultify/internal/triage"
)

// ErrNoDoctorsAvailable is returned when the doctor pool is empty.
var ErrNoDoctorsAvailable = fmt.Errorf("%w: no doctors available", common.ErrDependency)

// SelectDoctor picks a doctor for the given criteria. Selection is uniformly
// random over the whole pool; specialization and urgency are accepted but do
// not filter or rank yet — intentional placeholder behavior, not a bug.
// TODO: rank by specialization once doctor profiles reliably carry one.
func (r *Repo) SelectDoctor(ctx context.Context, criteria triage.Criteria) (*User, error) {
	doctors, err := r.ListDoctors(ctx)
	if err != nil {
		return nil, fmt.Errorf("list doctors: %w", err)
	}
	if len(doctors) == 0 {
		return nil, ErrNoDoctorsAvailable
	}

	selected := doctors[rand.Intn(len(doctors))]
	log.Printf("doctor selected doctor=%s urgency=%s specialization=%q",
		selected.ID, criteria.Urgency, criteria.Specialization)
	return &selected, nil
}
