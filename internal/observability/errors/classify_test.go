package errors

import (
	"context"
	"fmt"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
)

type customErr struct{}

func (customErr) Error() string { return "custom" }

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "deadline", err: fmt.Errorf("get user: %w", context.DeadlineExceeded), want: "timeout"},
		{name: "canceled", err: context.Canceled, want: "canceled"},
		{name: "dns", err: &net.DNSError{Err: "no such host", Name: "auth.local"}, want: "dns"},
		{name: "dial", err: &net.OpError{Op: "dial", Net: "tcp", Err: fmt.Errorf("refused")}, want: "connection"},
		{name: "wrapped custom", err: fmt.Errorf("outer: %w", customErr{}), want: "errors_customerr"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}
