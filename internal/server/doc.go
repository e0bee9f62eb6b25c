// Package server implements the webhook receiver for asynchronous Shinkansen
// response messages.
//
// Shinkansen delivers response messages by POSTing the JSON document together
// with a detached JWS signature in the Shinkansen-JWS-Signature header. The
// receiver verifies the signature over the raw request body against a
// certificate whitelist, checks the message identities, and hands the parsed
// message to the configured handler.
package server
