package httpapi

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/MarkoPoloResearchLab/sinthia_site/internal/forms"
	"github.com/MarkoPoloResearchLab/sinthia_site/internal/render"
)

const formMemoryLimit = 1 << 20

type formResponse struct {
	FormID  string         `json:"form_id"`
	Outcome forms.Phase    `json:"outcome"`
	Status  *render.Status `json:"status,omitempty"`
}

// SubmitContact relays the contact form.
func (handlers *SiteHandlers) SubmitContact(context *gin.Context) {
	handlers.submit(context, forms.ContactFormID)
}

// SubmitSubscription relays the subscription form.
func (handlers *SiteHandlers) SubmitSubscription(context *gin.Context) {
	handlers.submit(context, forms.SubscriptionFormID)
}

func (handlers *SiteHandlers) submit(context *gin.Context, formID string) {
	visitor, ok := handlers.liveVisitor(context)
	if !ok {
		return
	}
	fields, fieldsErr := formFields(context.Request)
	if fieldsErr != nil {
		context.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueInvalidPayload})
		return
	}
	outcome, status, submitErr := visitor.Session.Submit(context.Request.Context(), formID, fields, visitor.State.Language)
	if errors.Is(submitErr, forms.ErrUnknownForm) {
		context.JSON(http.StatusNotFound, gin.H{jsonKeyError: errorValueUnknownForm})
		return
	}
	context.JSON(http.StatusOK, formResponse{FormID: formID, Outcome: outcome, Status: status})
}

// formFields reads a multipart or urlencoded body. The browser's csrf_token is dropped; the relay receives the
// session's token.
func formFields(request *http.Request) (url.Values, error) {
	if parseErr := request.ParseMultipartForm(formMemoryLimit); parseErr != nil && !errors.Is(parseErr, http.ErrNotMultipart) {
		return nil, parseErr
	}
	fields := url.Values{}
	for name, values := range request.PostForm {
		if name == forms.TokenField {
			continue
		}
		fields[name] = append([]string(nil), values...)
	}
	return fields, nil
}
