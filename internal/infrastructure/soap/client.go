// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package soap is the groupware adapter speaking the JSON flavour of the SOAP API.
package soap

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/linuxfoundation/lfx-v2-distribution-list-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-distribution-list-service/internal/domain/port"
	"github.com/linuxfoundation/lfx-v2-distribution-list-service/pkg/constants"
	errs "github.com/linuxfoundation/lfx-v2-distribution-list-service/pkg/errors"
	"github.com/linuxfoundation/lfx-v2-distribution-list-service/pkg/httpclient"
	"github.com/linuxfoundation/lfx-v2-distribution-list-service/pkg/redaction"
)

// requestIDRoundTripper forwards the request id found in the context
type requestIDRoundTripper struct{}

func (requestIDRoundTripper) RoundTrip(req *http.Request, next func(*http.Request) (*http.Response, error)) (*http.Response, error) {
	if id, ok := req.Context().Value(constants.RequestIDContextKey).(string); ok && id != "" {
		req.Header.Set(constants.RequestIDHeader, id)
	}
	return next(req)
}

// Client calls the groupware SOAP endpoint
type Client struct {
	config     Config
	httpClient *httpclient.Client
}

var (
	_ port.DistributionListReader = (*Client)(nil)
	_ port.AddressBookWriter      = (*Client)(nil)
)

// NewClient creates a new SOAP client with the given configuration
func NewClient(cfg Config) (*Client, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("url is required for the SOAP client")
	}

	httpConfig := httpclient.Config{
		Timeout:      cfg.Timeout,
		MaxRetries:   cfg.MaxRetries,
		RetryDelay:   cfg.RetryDelay,
		RetryBackoff: true,
		Transport:    otelhttp.NewTransport(http.DefaultTransport),
		RetryStatus: func(e *httpclient.StatusError) bool {
			// faults are reported with 500 and will not change on retry
			return e.Retryable() && e.StatusCode != http.StatusInternalServerError
		},
	}

	client := &Client{
		config:     cfg,
		httpClient: httpclient.NewClient(httpConfig),
	}
	client.httpClient.AddRoundTripper(requestIDRoundTripper{})

	return client, nil
}

func (c *Client) header() *Header {
	h := &Header{Context: HeaderContext{
		Jsns:   namespaceZimbra,
		Format: Format{Type: "js"},
	}}
	if c.config.AuthToken != "" {
		h.Context.AuthToken = &Content{Content: c.config.AuthToken}
	}
	return h
}

// invoke sends a single request and decodes the matching response into out
func (c *Client) invoke(ctx context.Context, name string, request, out any) error {
	payload, err := json.Marshal(Envelope{
		Header: c.header(),
		Body:   map[string]any{name: request},
	})
	if err != nil {
		return errs.NewUnexpected("failed to encode SOAP request", err)
	}

	url := strings.TrimRight(c.config.URL, "/") + "/" + name
	resp, err := c.httpClient.Post(ctx, url, "application/json", payload, nil)
	if err != nil {
		return MapHTTPError(ctx, name, err)
	}

	var env ResponseEnvelope
	if err := json.Unmarshal(resp.Body, &env); err != nil {
		return errs.NewNetwork("malformed SOAP response", err)
	}

	if raw, ok := env.Body["Fault"]; ok {
		var fault Fault
		if err := json.Unmarshal(raw, &fault); err != nil {
			return errs.NewNetwork("malformed SOAP fault", err)
		}
		return WrapFault(ctx, name, &fault)
	}

	responseName := strings.TrimSuffix(name, "Request") + "Response"
	raw, ok := env.Body[responseName]
	if !ok {
		return errs.NewNetwork(fmt.Sprintf("SOAP response has no %s", responseName))
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return errs.NewNetwork(fmt.Sprintf("malformed %s", responseName), err)
	}
	return nil
}

// GetAccountDistributionLists lists the lists the account owns or belongs to
func (c *Client) GetAccountDistributionLists(ctx context.Context, query model.ListQuery) ([]*model.DistributionList, error) {
	slog.DebugContext(ctx, "fetching account distribution lists",
		"owner_of", query.OwnerOf,
		"member_of", query.MemberOf,
	)

	var resp GetAccountDistributionListsResponse
	err := c.invoke(ctx, constants.GetAccountDistributionListsRequest, GetAccountDistributionListsRequest{
		Jsns:     constants.NamespaceAccount,
		OwnerOf:  query.OwnerOf,
		MemberOf: string(query.MemberOf),
		Attrs:    "description",
	}, &resp)
	if err != nil {
		return nil, err
	}

	lists := make([]*model.DistributionList, 0, len(resp.DL))
	for i := range resp.DL {
		lists = append(lists, resp.DL[i].toModel())
	}

	slog.DebugContext(ctx, "account distribution lists fetched", "count", len(lists))
	return lists, nil
}

// GetDistributionList fetches a single list by id
func (c *Client) GetDistributionList(ctx context.Context, id string, needOwners bool) (*model.DistributionListDetails, error) {
	slog.DebugContext(ctx, "fetching distribution list", "id", id, "need_owners", needOwners)

	var resp GetDistributionListResponse
	err := c.invoke(ctx, constants.GetDistributionListRequest, GetDistributionListRequest{
		Jsns:       constants.NamespaceAccount,
		NeedOwners: needOwners,
		DL:         DistributionListSelector{By: "id", Content: id},
	}, &resp)
	if err != nil {
		return nil, err
	}

	if len(resp.DL) == 0 {
		return nil, errs.NewNotFound(fmt.Sprintf("distribution list %s not found", id))
	}
	return resp.DL[0].toDetails(), nil
}

// GetDistributionListMembers fetches one page of members
func (c *Client) GetDistributionListMembers(ctx context.Context, address string, offset, limit int) (*model.MemberPage, error) {
	slog.DebugContext(ctx, "fetching distribution list members",
		"address", redaction.RedactEmail(address),
		"offset", offset,
		"limit", limit,
	)

	var resp GetDistributionListMembersResponse
	err := c.invoke(ctx, constants.GetDistributionListMembersRequest, GetDistributionListMembersRequest{
		Jsns:   constants.NamespaceAccount,
		Offset: offset,
		Limit:  limit,
		DL:     DistributionListSelector{Content: address},
	}, &resp)
	if err != nil {
		return nil, err
	}

	return &model.MemberPage{
		Members: memberAddresses(resp.DLM),
		Offset:  offset,
		Total:   resp.Total,
		More:    resp.More,
	}, nil
}

// MoveContacts moves the contacts into the destination folder
func (c *Client) MoveContacts(ctx context.Context, contactIDs []string, destinationID string) error {
	if len(contactIDs) == 0 {
		return errs.NewValidation("no contacts to move")
	}

	slog.DebugContext(ctx, "moving contacts", "count", len(contactIDs), "destination", destinationID)

	return c.invoke(ctx, constants.ContactActionRequest, ActionRequest{
		Jsns: constants.NamespaceMail,
		Action: ActionSelector{
			Op:     "move",
			ID:     strings.Join(contactIDs, ","),
			Folder: destinationID,
		},
	}, nil)
}

// EmptyAddressBook removes the folder's contacts
func (c *Client) EmptyAddressBook(ctx context.Context, folderID string, recursive bool) error {
	slog.DebugContext(ctx, "emptying address book", "folder_id", folderID, "recursive", recursive)

	return c.invoke(ctx, constants.FolderActionRequest, ActionRequest{
		Jsns: constants.NamespaceMail,
		Action: ActionSelector{
			Op:        "empty",
			ID:        folderID,
			Recursive: recursive,
		},
	}, nil)
}

// GetShareInfo lists the folders shared with the account
func (c *Client) GetShareInfo(ctx context.Context) ([]*model.ShareInfo, error) {
	var resp GetShareInfoResponse
	err := c.invoke(ctx, constants.GetShareInfoRequest, GetShareInfoRequest{
		Jsns: constants.NamespaceAccount,
	}, &resp)
	if err != nil {
		return nil, err
	}

	shares := make([]*model.ShareInfo, 0, len(resp.Share))
	for i := range resp.Share {
		shares = append(shares, resp.Share[i].toModel())
	}

	slog.DebugContext(ctx, "share info fetched", "count", len(shares))
	return shares, nil
}

// CreateMountpoints creates every link in a single batch. Links that failed
// are reported by a *model.MountpointsError wrapped in a Network error; the
// other links of the batch stay created.
func (c *Client) CreateMountpoints(ctx context.Context, mountpoints []model.Mountpoint) error {
	if len(mountpoints) == 0 {
		return nil
	}

	batch := BatchRequest{
		Jsns:             namespaceZimbra,
		OnError:          "continue",
		CreateMountpoint: make([]CreateMountpointRequest, 0, len(mountpoints)),
	}
	for i, mp := range mountpoints {
		parent := mp.ParentID
		if parent == "" {
			parent = constants.FolderUserRoot
		}
		batch.CreateMountpoint = append(batch.CreateMountpoint, CreateMountpointRequest{
			Jsns:      constants.NamespaceMail,
			RequestID: strconv.Itoa(i),
			Link: LinkObject{
				Parent:   parent,
				Name:     mp.Name,
				OwnerZID: mp.OwnerZID,
				RemoteID: mp.RemoteID,
				View:     mp.View,
			},
		})
	}

	var resp BatchResponse
	if err := c.invoke(ctx, constants.BatchRequest, batch, &resp); err != nil {
		slog.ErrorContext(ctx, "failed to create mountpoints", "count", len(mountpoints), "error", err)
		return err
	}

	if len(resp.Fault) == 0 {
		slog.DebugContext(ctx, "mountpoints created", "count", len(mountpoints))
		return nil
	}

	failed := make(map[int]bool, len(resp.Fault))
	result := &model.MountpointsError{}
	for i := range resp.Fault {
		fault := resp.Fault[i]
		name := fault.RequestID
		if idx, err := strconv.Atoi(fault.RequestID); err == nil && idx >= 0 && idx < len(mountpoints) {
			name = mountpoints[idx].Name
			failed[idx] = true
		}
		faultErr := newFaultError(&fault.Fault)
		slog.WarnContext(ctx, "mountpoint not created",
			"name", name,
			"code", faultErr.Code,
			"reason", faultErr.Reason,
		)
		result.Failed = append(result.Failed, model.MountpointFailure{Name: name, Reason: faultErr.Reason})
	}
	for i, mp := range mountpoints {
		if !failed[i] {
			result.Created = append(result.Created, mp.Name)
		}
	}

	return errs.NewNetwork("mountpoints partly created", result)
}

// IsReady checks that the SOAP endpoint answers a no-op request
func (c *Client) IsReady(ctx context.Context) error {
	return c.invoke(ctx, constants.NoOpRequest, struct {
		Jsns string `json:"_jsns"`
	}{Jsns: constants.NamespaceMail}, nil)
}
