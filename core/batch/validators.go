package batch

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/shule/core"
)

var (
	classTimeTag  = "classtime"
	classTimeText = "must be a valid time of day (15:04)"
)

// InitValidators registers this domain's custom validators. core.InitValidators must be called first.
func InitValidators() {
	_ = core.Validate.RegisterValidation(classTimeTag, classTimeValidation)
	core.RegisterCustomTranslation(classTimeTag, classTimeText)
}

func classTimeValidation(fl validator.FieldLevel) bool {
	_, err := time.Parse("15:04", fl.Field().String())
	return err == nil
}
