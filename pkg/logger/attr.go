package logger

import (
	"log/slog"
	"time"
)

// Error logs err under "error". Nil errors produce an empty attribute.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String("error", err.Error())
}

func Component(name string) slog.Attr { return slog.String("component", name) }

func Email(email string) slog.Attr { return slog.String("email", email) }

func Plan(plan string) slog.Attr { return slog.String("plan", plan) }

func Status(status string) slog.Attr { return slog.String("status", status) }

func Provider(name string) slog.Attr { return slog.String("provider", name) }

// CustomerID logs the provider customer id. Empty ids are omitted.
func CustomerID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("customer_id", id)
}

// SubscriptionID logs the provider subscription id. Empty ids are omitted.
func SubscriptionID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("subscription_id", id)
}

func EventID(id string) slog.Attr { return slog.String("event_id", id) }

func EventType(t string) slog.Attr { return slog.String("event_type", t) }

func RequestID(id string) slog.Attr { return slog.String("request_id", id) }

func Duration(d time.Duration) slog.Attr { return slog.Duration("duration", d) }
