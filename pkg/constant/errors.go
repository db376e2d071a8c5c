package constant

import "errors"

// Sentinel errors, coded the way the teacher's pkg/constant/errors.go codes
// its own domain errors: a stable short string identifies the failure kind
// for logs and HTTP error bodies, independent of the Go error message text.
var (
	// ErrMissingRequiredField is a Validation-kind error (spec.md §7): the
	// inbound document is missing an identifier Intake cannot enrich
	// around. Synchronous callers see a 4xx; nothing is enqueued.
	ErrMissingRequiredField = errors.New("0001")

	// ErrNoActiveRouting means the Config plane has no routing configured
	// with active=true. Router drops the message with a warning and acks.
	ErrNoActiveRouting = errors.New("0002")

	// ErrConfigurationNotFound is returned by the two-tier cache when
	// neither tier nor the Config plane RPC has the requested entity.
	ErrConfigurationNotFound = errors.New("0003")

	// ErrMissingTransaction is a poison-message condition: a payload
	// reached a stage without the `transaction` field it requires.
	ErrMissingTransaction = errors.New("0004")

	// ErrMissingDataCache is a poison-message condition at Rule-Executor:
	// the payload never had its DataCache populated by Intake.
	ErrMissingDataCache = errors.New("0005")

	// ErrMalformedRuleConfiguration covers a rule with no bands, no
	// parameters, or parameters that fail schema validation. Ack, log,
	// do not re-queue (spec.md §4.4, §7).
	ErrMalformedRuleConfiguration = errors.New("0006")

	// ErrNoBandMatched means a rule's numeric outcome fell outside every
	// declared band.
	ErrNoBandMatched = errors.New("0007")

	// ErrRendezvousIncomplete is not a failure: it signals "more
	// partial results still expected" and is handled as a no-op ack.
	ErrRendezvousIncomplete = errors.New("0008")

	// ErrTransientDependency wraps a cache/broker/DB/RPC failure. Stream
	// handlers must not ack on this error so the broker redelivers.
	ErrTransientDependency = errors.New("0009")

	// ErrDuplicateActiveRouting flags a Config-plane mutation attempting
	// to activate a second routing while one is already active.
	ErrDuplicateActiveRouting = errors.New("0010")

	// ErrReloadPublishFailed surfaces a Config-plane mutation whose
	// database write committed but whose cache invalidation or reload
	// broadcast failed.
	ErrReloadPublishFailed = errors.New("0011")
)

// EntityNotFoundError is returned by Config-plane query paths when a
// routing/rule/typology id (or its active routing) does not exist.
type EntityNotFoundError struct {
	EntityType string
	Code       string
	Message    string
}

func (e EntityNotFoundError) Error() string {
	return e.Message
}

// ValidationError is returned by Config-plane mutation paths and Intake's
// document canonicalisation when the inbound payload fails validation.
type ValidationError struct {
	EntityType string
	Code       string
	Message    string
}

func (e ValidationError) Error() string {
	return e.Message
}
