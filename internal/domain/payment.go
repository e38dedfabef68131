package domain

type PaymentMethod string

const (
	PaymentCash PaymentMethod = "cash"
	PaymentCard PaymentMethod = "card"
)

// PaymentRecord carries the details for a single payment authorization.
// It is ephemeral: card fields exist only while the authorizer runs and are
// never attached to an Order or any persisted entity.
type PaymentRecord struct {
	Method         PaymentMethod `json:"method"`
	CardNumber     string        `json:"card_number,omitempty"`
	CardholderName string        `json:"cardholder_name,omitempty"`
	Expiry         string        `json:"expiry,omitempty"`
	CVV            string        `json:"cvv,omitempty"`
}
