package chat

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var ErrInvalidCallback = errors.New("invalid callback payload")

type Scope string

const (
	ScopeLearner  Scope = "u"
	ScopeOperator Scope = "op"
)

type Action string

const (
	ActionPassage       Action = "passage"
	ActionHidePassage   Action = "hide_passage"
	ActionMarkCorrect   Action = "mark_correct"
	ActionMarkIncorrect Action = "mark_incorrect"
	ActionRetire        Action = "retire"
	ActionRestore       Action = "restore"
)

// Callback is the typed button payload. Learner callbacks target a question;
// operator callbacks target an assignment, or a question for retire/restore.
type Callback struct {
	Scope    Scope  `validate:"required,oneof=u op"`
	Action   Action `validate:"required,oneof=passage hide_passage mark_correct mark_incorrect retire restore"`
	TargetID uint   `validate:"required,gt=0"`
}

var validate = validator.New()

func LearnerCallback(action Action, questionID uint) Callback {
	return Callback{Scope: ScopeLearner, Action: action, TargetID: questionID}
}

func OperatorCallback(action Action, targetID uint) Callback {
	return Callback{Scope: ScopeOperator, Action: action, TargetID: targetID}
}

func (c Callback) Encode() string {
	return fmt.Sprintf("%s:%s:%d", c.Scope, c.Action, c.TargetID)
}

// TargetsQuestion reports whether TargetID is a question id.
func (c Callback) TargetsQuestion() bool {
	return c.Scope == ScopeLearner || c.Action == ActionRetire || c.Action == ActionRestore
}

func (c Callback) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCallback, err)
	}
	if c.Scope == ScopeLearner && c.Action != ActionPassage {
		return fmt.Errorf("%w: action %q is not available to learners", ErrInvalidCallback, c.Action)
	}
	return nil
}

func ParseCallback(raw string) (Callback, error) {
	parts := strings.Split(raw, ":")
	if len(parts) != 3 {
		return Callback{}, fmt.Errorf("%w: %q", ErrInvalidCallback, raw)
	}
	id, err := strconv.ParseUint(parts[2], 10, 32)
	if err != nil {
		return Callback{}, fmt.Errorf("%w: bad target id %q", ErrInvalidCallback, parts[2])
	}
	c := Callback{Scope: Scope(parts[0]), Action: Action(parts[1]), TargetID: uint(id)}
	if err := c.Validate(); err != nil {
		return Callback{}, err
	}
	return c, nil
}
