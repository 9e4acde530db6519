package roster

import (
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
	})
	return validate
}

// Validate checks the record store invariants: field ranges, unique student ids,
// and daily records strictly ascending by date (which implies one record per date).
func Validate(r Roster) error {
	seen := make(map[int]struct{}, len(r))
	for _, s := range r {
		if err := validatorInstance().Struct(s); err != nil {
			return fmt.Errorf("student %d: %w", s.ID, err)
		}
		if _, dup := seen[s.ID]; dup {
			return fmt.Errorf("student %d: duplicate id", s.ID)
		}
		seen[s.ID] = struct{}{}

		if err := ascending(s.Attendance); err != nil {
			return fmt.Errorf("student %d attendance: %w", s.ID, err)
		}
		if err := ascending(s.Proactiveness); err != nil {
			return fmt.Errorf("student %d proactiveness: %w", s.ID, err)
		}
		if err := ascending(s.Tasks); err != nil {
			return fmt.Errorf("student %d tasks: %w", s.ID, err)
		}
	}
	return nil
}

func ascending[T Dated](records []T) error {
	for i := 1; i < len(records); i++ {
		prev, cur := records[i-1].Day(), records[i].Day()
		if !prev.Before(cur) {
			return fmt.Errorf("record %s not after %s", cur, prev)
		}
	}
	return nil
}
