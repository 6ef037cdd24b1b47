// Package modal tracks which overlay dialog a visitor has open and keeps navigation history in step with it.
package modal

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/MarkoPoloResearchLab/sinthia_site/internal/content"
	"github.com/MarkoPoloResearchLab/sinthia_site/internal/render"
)

// Modal identifiers.
const (
	QuickPay    = "quick-pay-modal"
	Policy      = "policy-modal"
	Subscribe   = "subscription-modal"
	FormSuccess = "form-success-modal"

	SubscriptionFormID = "subscription-form"
	QuickPayFormID     = "quick-pay-form"

	historyEntryPrefix = "#"

	logEventModalOpened = "modal_opened"
	logEventModalClosed = "modal_closed"
	logEventPolicyError = "policy_render_failed"
)

var ErrUnknownModal = errors.New("modal: unknown modal")

// Definition describes one modal dialog.
type Definition struct {
	ID string
	// Primary modals close when the visitor clicks outside their content.
	Primary bool
	FormID  string
}

// Definitions lists the dialogs of the marketing page.
func Definitions() []Definition {
	return []Definition{
		{ID: QuickPay, Primary: true, FormID: QuickPayFormID},
		{ID: Policy, Primary: true},
		{ID: Subscribe, FormID: SubscriptionFormID},
		{ID: FormSuccess},
	}
}

// TokenBinder injects the current security token into a form.
type TokenBinder interface {
	BindToken(formID string)
}

// PolicySource resolves policies by key and language.
type PolicySource interface {
	Policy(key string, languageCode string) (content.Policy, bool)
}

// Controller opens and closes modals for one visitor. At most one modal is open at a time.
// It is not safe for concurrent use.
type Controller struct {
	definitions map[string]Definition
	history     History
	binder      TokenBinder
	logger      *zap.Logger
	openID      string
	policy      *render.PolicyView
}

// NewController constructs a Controller over the definitions.
func NewController(definitions []Definition, history History, binder TokenBinder, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	if history == nil {
		history = NewMemoryHistory()
	}
	indexed := make(map[string]Definition, len(definitions))
	for _, definition := range definitions {
		indexed[definition.ID] = definition
	}
	return &Controller{definitions: indexed, history: history, binder: binder, logger: logger}
}

// Open shows the modal. Opening the open modal is a no-op; opening another closes it first.
func (controller *Controller) Open(modalID string) error {
	definition, known := controller.definitions[modalID]
	if !known {
		return fmt.Errorf("%w: %s", ErrUnknownModal, modalID)
	}
	if controller.openID == modalID {
		return nil
	}
	if controller.openID != "" {
		if closeErr := controller.Close(controller.openID, false); closeErr != nil {
			return closeErr
		}
	}
	controller.openID = modalID
	if definition.FormID != "" && controller.binder != nil {
		controller.binder.BindToken(definition.FormID)
	}
	controller.history.Push(historyEntryPrefix + modalID)
	controller.logger.Debug(logEventModalOpened, zap.String("modal_id", modalID))
	return nil
}

// Close hides the modal. The history entry is popped unless the close came from back navigation
// or the entry on top belongs to another modal.
func (controller *Controller) Close(modalID string, fromNavigation bool) error {
	if _, known := controller.definitions[modalID]; !known {
		return fmt.Errorf("%w: %s", ErrUnknownModal, modalID)
	}
	if controller.openID != modalID {
		return nil
	}
	controller.openID = ""
	if modalID == Policy {
		controller.policy = nil
	}
	if !fromNavigation {
		if top, present := controller.history.Top(); present && top == historyEntryPrefix+modalID {
			controller.history.Pop()
		}
	}
	controller.logger.Debug(logEventModalClosed, zap.String("modal_id", modalID), zap.Bool("from_navigation", fromNavigation))
	return nil
}

// IsOpen reports whether the modal is open.
func (controller *Controller) IsOpen(modalID string) bool {
	return controller.openID != "" && controller.openID == modalID
}

// OpenModal returns the open modal.
func (controller *Controller) OpenModal() (string, bool) {
	return controller.openID, controller.openID != ""
}

// OpenModals lists the open modals for rendering.
func (controller *Controller) OpenModals() []string {
	if controller.openID == "" {
		return nil
	}
	return []string{controller.openID}
}

// HistoryLen is the number of entries in the visitor's navigation history.
func (controller *Controller) HistoryLen() int {
	return controller.history.Len()
}

// HandleEscape closes the open modal.
func (controller *Controller) HandleEscape() {
	if controller.openID != "" {
		_ = controller.Close(controller.openID, false)
	}
}

// HandleOutsideClick closes the modal when it is primary and open.
func (controller *Controller) HandleOutsideClick(modalID string) bool {
	definition, known := controller.definitions[modalID]
	if !known || !definition.Primary || !controller.IsOpen(modalID) {
		return false
	}
	_ = controller.Close(modalID, false)
	return true
}

// HandleBackNavigation consumes one history entry and closes the open modal without touching history again.
func (controller *Controller) HandleBackNavigation() {
	controller.history.Pop()
	if controller.openID != "" {
		_ = controller.Close(controller.openID, true)
	}
}

// ShowPolicy resolves the policy in the language, falling back to English, and opens the policy modal.
// An absent policy is a no-op.
func (controller *Controller) ShowPolicy(source PolicySource, policyKey string, languageCode string) bool {
	if source == nil {
		return false
	}
	policy, found := source.Policy(policyKey, languageCode)
	if !found {
		return false
	}
	view, renderErr := render.Policy(policyKey, policy)
	if renderErr != nil {
		controller.logger.Warn(logEventPolicyError, zap.String("policy_key", policyKey), zap.Error(renderErr))
		return false
	}
	if openErr := controller.Open(Policy); openErr != nil {
		return false
	}
	controller.policy = &view
	return true
}

// PolicyView returns the policy shown in the policy modal.
func (controller *Controller) PolicyView() *render.PolicyView {
	return controller.policy
}
