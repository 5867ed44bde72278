package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"go.uber.org/zap"
)

type envelope map[string]any

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

func newValidator() (*validator.Validate, ut.Translator) {
	validate := validator.New()
	english := en.New()
	uni := ut.New(english, english)
	trans, _ := uni.GetTranslator("en")
	_ = enTranslations.RegisterDefaultTranslations(validate, trans)
	return validate, trans
}

// translateValidation flattens validator errors into one readable message.
func translateValidation(err error, trans ut.Translator) error {
	validatorErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	msgs := []string{}
	for _, e := range validatorErrs {
		msgs = append(msgs, e.Translate(trans))
	}
	return fmt.Errorf("validation error: %v", msgs)
}

func (api *searchAPI) writeJSON(w http.ResponseWriter, status int, data envelope) {
	body, err := json.Marshal(data)
	if err != nil {
		api.log.Error("encode response", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	body = append(body, '\n')

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func (api *searchAPI) errorJSON(w http.ResponseWriter, status int, code string, err error) {
	resp := errorResponse{Error: errorBody{Code: code, Message: err.Error()}}
	body, marshalErr := json.Marshal(resp)
	if marshalErr != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func (api *searchAPI) badRequest(w http.ResponseWriter, err error) {
	api.errorJSON(w, http.StatusBadRequest, "BAD_REQUEST", err)
}

func (api *searchAPI) serverError(w http.ResponseWriter, err error) {
	api.log.Error("request failed", zap.Error(err))
	api.errorJSON(w, http.StatusInternalServerError, "INTERNAL", err)
}
