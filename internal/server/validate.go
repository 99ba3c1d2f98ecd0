package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"regexp"
	"slices"
	"strings"

	"github.com/Emes13/habittrax/pkg/habit"
	"github.com/go-playground/validator/v10"
)

var colorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("hexcolor6", func(fl validator.FieldLevel) bool {
		return colorPattern.MatchString(fl.Field().String())
	})
	v.RegisterStructValidation(habitRequestLevel, HabitRequest{})
	return v
}

type CategoryRequest struct {
	Name  string `json:"name" validate:"required,max=50"`
	Color string `json:"color" validate:"omitempty,hexcolor6"`
}

func (c *CategoryRequest) trim() {
	c.Name = strings.TrimSpace(c.Name)
	c.Color = strings.TrimSpace(c.Color)
}

func (c CategoryRequest) category(id string) habit.Category {
	color := c.Color
	if color == "" {
		color = habit.DefaultCategoryColor
	}
	return habit.Category{ID: id, Name: c.Name, Color: color}
}

type HabitRequest struct {
	CategoryID   string             `json:"category_id" validate:"required"`
	Name         string             `json:"name" validate:"required,max=100"`
	Description  string             `json:"description" validate:"max=500"`
	Frequency    habit.Frequency    `json:"frequency" validate:"required,oneof=daily weekly custom"`
	StartDay     *int               `json:"start_day" validate:"omitempty,min=0,max=6"`
	DaysOfWeek   []int              `json:"days_of_week" validate:"omitempty,max=7,unique,dive,min=0,max=6"`
	ReminderTime habit.ReminderTime `json:"reminder_time" validate:"omitempty,oneof=none anytime morning afternoon evening"`
}

func (req *HabitRequest) trim() {
	req.Name = strings.TrimSpace(req.Name)
	req.Description = strings.TrimSpace(req.Description)
}

func habitRequestLevel(sl validator.StructLevel) {
	req := sl.Current().Interface().(HabitRequest)
	switch req.Frequency {
	case habit.FrequencyWeekly:
		if req.StartDay == nil {
			sl.ReportError(req.StartDay, "start_day", "StartDay", "required_weekly", "")
		}
	case habit.FrequencyCustom:
		if len(req.DaysOfWeek) == 0 {
			sl.ReportError(req.DaysOfWeek, "days_of_week", "DaysOfWeek", "required_custom", "")
		}
	}
}

// habit builds the stored habit. Schedule fields that the frequency does not
// read are dropped.
func (req HabitRequest) habit(userID, id string) habit.Habit {
	h := habit.Habit{
		ID:           id,
		UserID:       userID,
		CategoryID:   req.CategoryID,
		Name:         req.Name,
		Description:  req.Description,
		Frequency:    req.Frequency,
		ReminderTime: req.ReminderTime,
	}
	if h.ReminderTime == "" {
		h.ReminderTime = habit.ReminderNone
	}
	switch req.Frequency {
	case habit.FrequencyWeekly:
		day := *req.StartDay
		h.StartDay = &day
	case habit.FrequencyCustom:
		h.DaysOfWeek = slices.Clone(req.DaysOfWeek)
		slices.Sort(h.DaysOfWeek)
	}
	return h
}

// StatusRequest is the body of toggle and explicit status writes.
type StatusRequest struct {
	Date   string  `json:"date" validate:"required"`
	Status *string `json:"status,omitempty"`
}

func (req StatusRequest) parse() (habit.Date, *habit.Status, error) {
	d, err := habit.ParseDate(req.Date)
	if err != nil {
		return habit.Date{}, nil, err
	}
	if req.Status == nil {
		return d, nil, nil
	}
	st, err := habit.ParseStatus(*req.Status)
	if err != nil {
		return habit.Date{}, nil, err
	}
	return d, &st, nil
}

// decodeAndValidate reads a JSON body into v and runs its validate tags.
func decodeAndValidate(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return &habit.ValidationError{Field: "body", Reason: "invalid JSON"}
	}
	if t, ok := v.(interface{ trim() }); ok {
		t.trim()
	}
	return validateStruct(v)
}

func validateStruct(v any) error {
	err := validate.Struct(v)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		verr := &habit.ValidationError{Field: fe.Field(), Reason: reasonFor(fe)}
		if s, ok := fe.Value().(string); ok {
			verr.Value = s
		}
		return verr
	}
	return err
}

func reasonFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min", "max":
		bound := "at least"
		if fe.Tag() == "max" {
			bound = "at most"
		}
		switch fe.Kind() {
		case reflect.String:
			return fmt.Sprintf("must be %s %s characters", bound, fe.Param())
		case reflect.Slice:
			return fmt.Sprintf("must have %s %s entries", bound, fe.Param())
		}
		return fmt.Sprintf("must be %s %s", bound, fe.Param())
	case "oneof":
		return "must be one of " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "unique":
		return "must not repeat values"
	case "hexcolor6":
		return "must be a #RRGGBB colour"
	case "required_weekly":
		return "is required for weekly habits"
	case "required_custom":
		return "must name at least one day for custom habits"
	}
	return fmt.Sprintf("failed on the '%s' tag", fe.Tag())
}
