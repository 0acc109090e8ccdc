// Package logging emits one JSON line per checkout event so operators can
// correlate payments, orders and compensations without a tracing stack.
package logging

import (
	"encoding/json"
	"log"
	"time"
)

type Fields struct {
	Component  string `json:"component"`
	UserID     int64  `json:"user_id,omitempty"`
	OrderID    int64  `json:"order_id,omitempty"`
	ProductID  string `json:"product_id,omitempty"`
	Step       string `json:"step,omitempty"`
	Status     string `json:"status,omitempty"`
	DurationMS int64  `json:"duration_ms,omitempty"`
	Message    string `json:"message,omitempty"`
}

func Log(fields Fields) {
	payload := map[string]any{
		"component": fields.Component,
		"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
	}
	if fields.UserID != 0 {
		payload["user_id"] = fields.UserID
	}
	if fields.OrderID != 0 {
		payload["order_id"] = fields.OrderID
	}
	if fields.ProductID != "" {
		payload["product_id"] = fields.ProductID
	}
	if fields.Step != "" {
		payload["step"] = fields.Step
	}
	if fields.Status != "" {
		payload["status"] = fields.Status
	}
	if fields.DurationMS != 0 {
		payload["duration_ms"] = fields.DurationMS
	}
	if fields.Message != "" {
		payload["message"] = fields.Message
	}
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("{\"component\":%q,\"status\":\"log_error\",\"error\":%q}", fields.Component, err.Error())
		return
	}
	log.Print(string(data))
}
