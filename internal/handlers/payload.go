package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-tracker-api/internal/services"
)

var errInvalidBody = errors.New("invalid request body")

// fieldError reports a payload key that could not be decoded
type fieldError struct {
	field  string
	reason string
}

func (e *fieldError) Error() string {
	return fmt.Sprintf("%s %s", e.field, e.reason)
}

// payload keeps the raw JSON object so that "absent", "null" and a value can
// be told apart for merge-patch updates.
type payload map[string]json.RawMessage

func readPayload(c *gin.Context) (payload, error) {
	var p payload
	if err := c.ShouldBindJSON(&p); err != nil || p == nil {
		return nil, errInvalidBody
	}
	return p, nil
}

func (p payload) raw(key string) (json.RawMessage, bool) {
	v, ok := p[key]
	return v, ok
}

func isNull(v json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(v), []byte("null"))
}

// optString returns nil when key is absent. null decodes to "".
func (p payload) optString(key string) (*string, error) {
	v, ok := p.raw(key)
	if !ok {
		return nil, nil
	}
	s := ""
	if isNull(v) {
		return &s, nil
	}
	if err := json.Unmarshal(v, &s); err != nil {
		return nil, &fieldError{key, "must be a string"}
	}
	return &s, nil
}

func (p payload) str(key string) (string, error) {
	s, err := p.optString(key)
	if err != nil || s == nil {
		return "", err
	}
	return *s, nil
}

// optID accepts a number or a numeric string. null and "" clear the field.
func (p payload) optID(key string) (services.Patch[uint64], error) {
	v, ok := p.raw(key)
	if !ok {
		return services.Patch[uint64]{}, nil
	}
	if isNull(v) {
		return services.PatchClear[uint64](), nil
	}

	var n json.Number
	if err := json.Unmarshal(v, &n); err != nil {
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return services.Patch[uint64]{}, &fieldError{key, "must be a numeric id"}
		}
		n = json.Number(strings.TrimSpace(s))
	}
	if n == "" {
		return services.PatchClear[uint64](), nil
	}

	id, err := strconv.ParseUint(n.String(), 10, 64)
	if err != nil || id == 0 {
		return services.Patch[uint64]{}, &fieldError{key, "must be a numeric id"}
	}
	return services.PatchValue(id), nil
}

// optFloat returns nil when key is absent or null
func (p payload) optFloat(key string) (*float64, error) {
	v, ok := p.raw(key)
	if !ok || isNull(v) {
		return nil, nil
	}

	var n json.Number
	if err := json.Unmarshal(v, &n); err != nil {
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return nil, &fieldError{key, "must be a number"}
		}
		if strings.TrimSpace(s) == "" {
			return nil, nil
		}
		n = json.Number(strings.TrimSpace(s))
	}

	f, err := strconv.ParseFloat(n.String(), 64)
	if err != nil {
		return nil, &fieldError{key, "must be a number"}
	}
	return &f, nil
}

// optTime accepts RFC 3339 timestamps and plain dates. null and "" clear
// the field.
func (p payload) optTime(key string) (services.Patch[time.Time], error) {
	s, err := p.optString(key)
	if err != nil {
		return services.Patch[time.Time]{}, &fieldError{key, "must be a date"}
	}
	if s == nil {
		return services.Patch[time.Time]{}, nil
	}
	if strings.TrimSpace(*s) == "" {
		return services.PatchClear[time.Time](), nil
	}

	t, err := parseDate(strings.TrimSpace(*s))
	if err != nil {
		return services.Patch[time.Time]{}, &fieldError{key, "must be an RFC 3339 timestamp or a YYYY-MM-DD date"}
	}
	return services.PatchValue(t), nil
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse(time.DateOnly, s)
}

func toCreateTaskInput(p payload, userID uint64) (services.CreateTaskInput, error) {
	input := services.CreateTaskInput{CreatedBy: userID}
	var err error

	if input.Title, err = p.str("title"); err != nil {
		return input, err
	}
	if input.Description, err = p.str("description"); err != nil {
		return input, err
	}
	if input.Status, err = p.str("status"); err != nil {
		return input, err
	}
	if input.Priority, err = p.str("priority"); err != nil {
		return input, err
	}

	project, err := p.optID("projectId")
	if err != nil {
		return input, err
	}
	if project.Value != nil {
		input.ProjectID = *project.Value
	}

	assignee, err := p.optID("assignedTo")
	if err != nil {
		return input, err
	}
	input.AssignedTo = assignee.Value

	due, err := p.optTime("dueDate")
	if err != nil {
		return input, err
	}
	input.DueDate = due.Value

	estimated, err := p.optFloat("estimatedHours")
	if err != nil {
		return input, err
	}
	if estimated != nil {
		input.EstimatedHours = *estimated
	}
	actual, err := p.optFloat("actualHours")
	if err != nil {
		return input, err
	}
	if actual != nil {
		input.ActualHours = *actual
	}

	return input, nil
}

func toUpdateTaskInput(p payload) (services.UpdateTaskInput, error) {
	var input services.UpdateTaskInput
	var err error

	if input.Title, err = p.optString("title"); err != nil {
		return input, err
	}
	if input.Description, err = p.optString("description"); err != nil {
		return input, err
	}
	if input.Status, err = p.optString("status"); err != nil {
		return input, err
	}
	if input.Priority, err = p.optString("priority"); err != nil {
		return input, err
	}
	if input.ProjectID, err = p.optID("projectId"); err != nil {
		return input, err
	}
	if input.AssignedTo, err = p.optID("assignedTo"); err != nil {
		return input, err
	}
	if input.DueDate, err = p.optTime("dueDate"); err != nil {
		return input, err
	}
	if input.EstimatedHours, err = p.optFloat("estimatedHours"); err != nil {
		return input, err
	}
	if input.ActualHours, err = p.optFloat("actualHours"); err != nil {
		return input, err
	}

	return input, nil
}
