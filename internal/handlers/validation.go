package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

const maxBodyBytes = 1 << 20

var registerTagNames sync.Once

// fieldErrors maps JSON field names to human-readable messages.
type fieldErrors map[string][]string

func (fe fieldErrors) add(field, msg string) {
	fe[field] = append(fe[field], msg)
}

func respondInvalid(c *gin.Context, fe fieldErrors) {
	body := gin.H{"error": "Invalid payload"}
	if len(fe) > 0 {
		body["details"] = gin.H{"fieldErrors": fe}
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, body)
}

// decodeJSON reads the body into dst. Type mismatches come back as field errors.
func decodeJSON(c *gin.Context, dst any) (fieldErrors, error) {
	dec := json.NewDecoder(http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return fieldErrors{typeErr.Field: {"Invalid type, expected " + typeErr.Type.String()}}, err
		}
		return nil, err
	}
	return nil, nil
}

// validate runs the binding tags of dst through gin's validator.
func validate(dst any) fieldErrors {
	registerTagNames.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			v.RegisterTagNameFunc(jsonName)
		}
	})

	err := binding.Validator.ValidateStruct(dst)
	if err == nil {
		return nil
	}

	fe := fieldErrors{}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		fe.add("_", err.Error())
		return fe
	}
	for _, e := range verrs {
		fe.add(e.Field(), message(e))
	}
	return fe
}

func jsonName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}

func message(e validator.FieldError) string {
	isString := e.Kind() == reflect.String
	switch e.Tag() {
	case "required":
		return "Required"
	case "email":
		return "Invalid email"
	case "min":
		if isString {
			return fmt.Sprintf("Must contain at least %s character(s)", e.Param())
		}
		return "Must be at least " + e.Param()
	case "max":
		if isString {
			return fmt.Sprintf("Must contain at most %s character(s)", e.Param())
		}
		return "Must be at most " + e.Param()
	case "gt":
		return "Must be greater than " + e.Param()
	case "gte":
		return "Must be greater than or equal to " + e.Param()
	case "oneof":
		return "Must be one of: " + e.Param()
	default:
		return "Invalid value"
	}
}
