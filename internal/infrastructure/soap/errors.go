// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package soap

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/linuxfoundation/lfx-v2-distribution-list-service/pkg/constants"
	errs "github.com/linuxfoundation/lfx-v2-distribution-list-service/pkg/errors"
	"github.com/linuxfoundation/lfx-v2-distribution-list-service/pkg/httpclient"
)

// FaultError is a SOAP fault returned by the groupware server
type FaultError struct {
	Code   string
	Reason string
}

func (f *FaultError) Error() string {
	return fmt.Sprintf("soap fault %s: %s", f.Code, f.Reason)
}

func newFaultError(f *Fault) *FaultError {
	return &FaultError{Code: f.Detail.Error.Code, Reason: f.Reason.Text}
}

// isNotFoundCode reports whether the fault code names a missing item,
// e.g. account.NO_SUCH_DISTRIBUTION_LIST or mail.NO_SUCH_FOLDER.
func isNotFoundCode(code string) bool {
	switch code {
	case constants.FaultNoSuchDistributionList, constants.FaultNoSuchFolder, constants.FaultNoSuchContact:
		return true
	}
	_, name, _ := strings.Cut(code, ".")
	return strings.HasPrefix(name, "NO_SUCH_")
}

// WrapFault maps a SOAP fault to a domain error
func WrapFault(ctx context.Context, request string, f *Fault) error {
	if f == nil {
		return nil
	}
	faultErr := newFaultError(f)

	slog.WarnContext(ctx, "groupware SOAP fault",
		"request", request,
		"code", faultErr.Code,
		"reason", faultErr.Reason,
	)

	switch {
	case isNotFoundCode(faultErr.Code):
		return errs.NewNotFound(faultErr.Reason, faultErr)
	case faultErr.Code == constants.FaultAuthExpired || faultErr.Code == constants.FaultAuthRequired:
		return errs.NewUnauthorized("groupware authentication failed", faultErr)
	default:
		return errs.NewNetwork(fmt.Sprintf("%s failed: %s", request, faultErr.Reason), faultErr)
	}
}

// MapHTTPError maps httpclient errors to domain errors. Fault envelopes carried
// by an error status are decoded first.
func MapHTTPError(ctx context.Context, request string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return errs.NewNetwork(fmt.Sprintf("%s cancelled", request), err)
	}

	var statusErr *httpclient.StatusError
	if errors.As(err, &statusErr) {
		if fault := decodeFault(statusErr.Body); fault != nil {
			return WrapFault(ctx, request, fault)
		}

		slog.WarnContext(ctx, "groupware HTTP error occurred",
			"request", request,
			"status_code", statusErr.StatusCode,
		)

		switch statusErr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return errs.NewUnauthorized("groupware authentication failed", err)
		case http.StatusNotFound:
			return errs.NewNetwork("groupware SOAP endpoint not found", err)
		default:
			return errs.NewNetwork(fmt.Sprintf("%s failed with status %d", request, statusErr.StatusCode), err)
		}
	}

	slog.ErrorContext(ctx, "groupware request failed with non-HTTP error",
		"request", request,
		"error", err,
	)
	return errs.NewNetwork(fmt.Sprintf("%s failed", request), err)
}

// decodeFault returns the fault of a response body, or nil when there is none
func decodeFault(body []byte) *Fault {
	var env ResponseEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil
	}
	raw, ok := env.Body["Fault"]
	if !ok {
		return nil
	}
	var fault Fault
	if err := json.Unmarshal(raw, &fault); err != nil {
		return nil
	}
	return &fault
}
