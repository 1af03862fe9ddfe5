package service

import (
	"fmt"
	"slices"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/yasmngoncalves/PolarisApp/internal"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("daykey", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(internal.DayLayout, fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(clockLayout, fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("mood", oneOf(internal.Moods))
	_ = v.RegisterValidation("sleepquality", oneOf(internal.SleepQualities))
	return v
}

func oneOf(allowed []string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return slices.Contains(allowed, fl.Field().String())
	}
}

// check runs struct validation and tags failures as invalid input.
func check(req interface{}) error {
	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %v", internal.ErrInvalidInput, err)
	}
	return nil
}

func checkDay(day string) error {
	if err := validate.Var(day, "required,daykey"); err != nil {
		return fmt.Errorf("%w: day must be yyyy-mm-dd, got %q", internal.ErrInvalidInput, day)
	}
	return nil
}
