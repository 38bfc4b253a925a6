package handlers

import (
	"reflect"
	"strings"
	"sync"

	"github.com/blogworks/postapi/internal/logger"
	"github.com/blogworks/postapi/internal/posts"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

var registerOnce sync.Once

// RegisterValidators adds the "slug" rule to gin's validator and reports
// fields by their JSON names
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}

		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return fld.Name
			}
			return name
		})

		if err := v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
			return posts.ValidSlug(fl.Field().String())
		}); err != nil {
			logger.Log.Error("Failed to register slug validator", zap.Error(err))
		}
	})
}
