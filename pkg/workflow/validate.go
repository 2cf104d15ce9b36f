package workflow

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidWorkflow is wrapped by every error Validate returns.
var ErrInvalidWorkflow = errors.New("invalid workflow")

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		err := validate.RegisterValidation("lookback", func(fl validator.FieldLevel) bool {
			return slices.Contains(LookbackWindows, fl.Field().String())
		})
		if err != nil {
			panic(fmt.Sprintf("workflow: register lookback validation: %v", err))
		}
	})
	return validate
}

// Validate checks field values and graph invariants and reports every
// problem found, joined into one error wrapping ErrInvalidWorkflow.
func Validate(doc *Document) error {
	var problems []error

	if err := structValidator().Struct(doc); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				problems = append(problems, fmt.Errorf("%s: failed %q check (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
			}
		} else {
			problems = append(problems, err)
		}
	}

	for _, n := range doc.Nodes {
		if n.Type == TypeSchedule && n.Schedule != nil {
			if _, err := n.Schedule.CronSpec(); err != nil {
				problems = append(problems, fmt.Errorf("node %q: %w", n.ID, err))
			}
		}
	}

	problems = append(problems, graphProblems(doc.Nodes, doc.Connections)...)

	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidWorkflow, errors.Join(problems...))
}

func graphProblems(nodes []Node, conns []Connection) []error {
	var problems []error

	types := make(map[string]NodeType, len(nodes))
	for _, n := range nodes {
		if _, dup := types[n.ID]; dup {
			problems = append(problems, fmt.Errorf("duplicate node id %q", n.ID))
		}
		types[n.ID] = n.Type
		if n.Position.X < 0 || n.Position.Y < 0 {
			problems = append(problems, fmt.Errorf("node %q: negative position (%.0f, %.0f)", n.ID, n.Position.X, n.Position.Y))
		}
	}

	connIDs := make(map[string]bool, len(conns))
	pairs := make(map[[2]string]bool, len(conns))
	for i, c := range conns {
		if connIDs[c.ID] {
			problems = append(problems, fmt.Errorf("connection %d: duplicate id %q", i, c.ID))
		}
		connIDs[c.ID] = true

		if c.SourceID == c.TargetID {
			problems = append(problems, fmt.Errorf("connection %q: self loop on %q", c.ID, c.SourceID))
		}
		pair := [2]string{c.SourceID, c.TargetID}
		if pairs[pair] {
			problems = append(problems, fmt.Errorf("connection %q: duplicate edge %s -> %s", c.ID, c.SourceID, c.TargetID))
		}
		pairs[pair] = true

		for _, end := range []string{c.SourceID, c.TargetID} {
			t, ok := types[end]
			switch {
			case !ok:
				problems = append(problems, fmt.Errorf("connection %q: node %q not found", c.ID, end))
			case !t.Connectable():
				problems = append(problems, fmt.Errorf("connection %q: note %q cannot be connected", c.ID, end))
			}
		}
	}
	return problems
}
