package client

import (
	"encoding/json"
	"fmt"
)

// HTTPResponseError is an error reported in the synchronous response to a
// message post.
type HTTPResponseError struct {
	ErrorCode    string `json:"error_code"`
	ErrorMessage string `json:"error_message"`
}

func (e HTTPResponseError) String() string {
	return fmt.Sprintf("%s (%s)", e.ErrorCode, e.ErrorMessage)
}

// PayinHTTPResponse is the parsed synchronous response to a payin message.
//
// On acceptance (200 or 409) TransactionIDs maps each transaction id to the
// id assigned by Shinkansen, and InteractivePaymentURLs maps interactive
// payin transaction ids to the URL the payer must visit. On rejection (400)
// Errors carries the reported errors. Any response body that cannot be
// decoded yields empty maps and no errors, with the status code preserved.
type PayinHTTPResponse struct {
	HTTPStatusCode         int
	TransactionIDs         map[string]string
	InteractivePaymentURLs map[string]string
	Errors                 []HTTPResponseError
}

// PayoutHTTPResponse is the parsed synchronous response to a payout message.
type PayoutHTTPResponse struct {
	HTTPStatusCode int
	TransactionIDs map[string]string
	Errors         []HTTPResponseError
}

type acceptedTransaction struct {
	TransactionID           string `json:"transaction_id"`
	ShinkansenTransactionID string `json:"shinkansen_transaction_id"`
	InteractivePaymentURL   string `json:"interactive_payment_url"`
}

type acceptedBody struct {
	Transactions []acceptedTransaction `json:"transactions"`
}

type rejectedBody struct {
	Errors []HTTPResponseError `json:"errors"`
}

func parsePayinHTTPResponse(statusCode int, body []byte) *PayinHTTPResponse {
	resp := &PayinHTTPResponse{
		HTTPStatusCode:         statusCode,
		TransactionIDs:         map[string]string{},
		InteractivePaymentURLs: map[string]string{},
		Errors:                 []HTTPResponseError{},
	}

	switch statusCode {
	case 200, 409:
		var accepted acceptedBody
		if err := json.Unmarshal(body, &accepted); err != nil {
			return resp
		}
		for _, t := range accepted.Transactions {
			resp.TransactionIDs[t.TransactionID] = t.ShinkansenTransactionID
			if t.InteractivePaymentURL != "" {
				resp.InteractivePaymentURLs[t.TransactionID] = t.InteractivePaymentURL
			}
		}
	case 400:
		var rejected rejectedBody
		if err := json.Unmarshal(body, &rejected); err != nil {
			return resp
		}
		resp.Errors = append(resp.Errors, rejected.Errors...)
	}
	return resp
}

func parsePayoutHTTPResponse(statusCode int, body []byte) *PayoutHTTPResponse {
	resp := &PayoutHTTPResponse{
		HTTPStatusCode: statusCode,
		TransactionIDs: map[string]string{},
		Errors:         []HTTPResponseError{},
	}

	switch statusCode {
	case 200, 409:
		var accepted acceptedBody
		if err := json.Unmarshal(body, &accepted); err != nil {
			return resp
		}
		for _, t := range accepted.Transactions {
			resp.TransactionIDs[t.TransactionID] = t.ShinkansenTransactionID
		}
	case 400:
		var rejected rejectedBody
		if err := json.Unmarshal(body, &rejected); err != nil {
			return resp
		}
		resp.Errors = append(resp.Errors, rejected.Errors...)
	}
	return resp
}
