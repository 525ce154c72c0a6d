// Package payfast implements the PayFast Instant Transaction Notification (ITN)
// protocol: signature computation, notifier source checks, remote validation and
// the combined accept/reject decision.
package payfast

import (
	"encoding/json"
	"fmt"
	"net/url"
)

// Wire field names of an ITN.
const (
	FieldMerchantID       = "merchant_id"
	FieldMerchantKey      = "merchant_key"
	FieldPaymentID        = "m_payment_id"
	FieldGatewayPaymentID = "pf_payment_id"
	FieldPaymentStatus    = "payment_status"
	FieldItemName         = "item_name"
	FieldItemDescription  = "item_description"
	FieldAmountGross      = "amount_gross"
	FieldAmountFee        = "amount_fee"
	FieldAmountNet        = "amount_net"
	FieldCustomStr1       = "custom_str1"
	FieldCustomStr2       = "custom_str2"
	FieldCustomStr3       = "custom_str3"
	FieldCustomStr4       = "custom_str4"
	FieldCustomStr5       = "custom_str5"
	FieldCustomInt1       = "custom_int1"
	FieldCustomInt2       = "custom_int2"
	FieldCustomInt3       = "custom_int3"
	FieldCustomInt4       = "custom_int4"
	FieldCustomInt5       = "custom_int5"
	FieldNameFirst        = "name_first"
	FieldNameLast         = "name_last"
	FieldEmailAddress     = "email_address"
	FieldSignature        = "signature"
)

// Notification is the decoded field set of an ITN.
// Absent optional fields are simply missing from the map.
type Notification map[string]string

// NotificationFromForm builds a Notification from a decoded form body,
// keeping the first value of each field.
func NotificationFromForm(form url.Values) Notification {
	n := make(Notification, len(form))
	for key, values := range form {
		if len(values) > 0 {
			n[key] = values[0]
		}
	}
	return n
}

// Form renders the notification back into form values.
func (n Notification) Form() url.Values {
	form := make(url.Values, len(n))
	for key, value := range n {
		form.Set(key, value)
	}
	return form
}

// JSON renders the notification verbatim for audit storage.
func (n Notification) JSON() json.RawMessage {
	data, err := json.Marshal(map[string]string(n))
	if err != nil {
		return nil
	}
	return data
}

// MerchantID returns merchant_id, the merchant the notification claims to be for.
func (n Notification) MerchantID() string { return n[FieldMerchantID] }

// PaymentID returns m_payment_id, the merchant-side payment id.
func (n Notification) PaymentID() string { return n[FieldPaymentID] }

// GatewayPaymentID returns pf_payment_id, the gateway transaction id.
func (n Notification) GatewayPaymentID() string { return n[FieldGatewayPaymentID] }

// PaymentStatus returns payment_status as reported by the gateway.
func (n Notification) PaymentStatus() Status { return Status(n[FieldPaymentStatus]) }

// ItemName returns item_name.
func (n Notification) ItemName() string { return n[FieldItemName] }

// ItemDescription returns item_description.
func (n Notification) ItemDescription() string { return n[FieldItemDescription] }

// AmountGross returns amount_gross unparsed.
func (n Notification) AmountGross() string { return n[FieldAmountGross] }

// AmountFee returns amount_fee unparsed.
func (n Notification) AmountFee() string { return n[FieldAmountFee] }

// AmountNet returns amount_net unparsed.
func (n Notification) AmountNet() string { return n[FieldAmountNet] }

// NameFirst returns name_first of the buyer.
func (n Notification) NameFirst() string { return n[FieldNameFirst] }

// NameLast returns name_last of the buyer.
func (n Notification) NameLast() string { return n[FieldNameLast] }

// EmailAddress returns email_address of the buyer.
func (n Notification) EmailAddress() string { return n[FieldEmailAddress] }

// Signature returns the signature field as received.
func (n Notification) Signature() string { return n[FieldSignature] }

// CustomStr returns custom_str<i> for i in 1..5.
func (n Notification) CustomStr(i int) string { return n[fmt.Sprintf("custom_str%d", i)] }

// CustomInt returns custom_int<i> for i in 1..5, unparsed.
func (n Notification) CustomInt(i int) string { return n[fmt.Sprintf("custom_int%d", i)] }

// UserReference is the internal user id carried in custom_str1.
func (n Notification) UserReference() string { return n[FieldCustomStr1] }

// InvoiceReference is the internal invoice id carried in custom_str2.
func (n Notification) InvoiceReference() string { return n[FieldCustomStr2] }
