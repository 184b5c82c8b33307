// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package soap

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/linuxfoundation/lfx-v2-distribution-list-service/internal/domain/model"
)

const namespaceZimbra = "urn:zimbra"

// Content is the {"_content": value} wrapper used for element text
type Content struct {
	Content string `json:"_content"`
}

// Envelope is a JSON SOAP request envelope with a single request in its body
type Envelope struct {
	Header *Header        `json:"Header,omitempty"`
	Body   map[string]any `json:"Body"`
}

// Header carries the request context
type Header struct {
	Context HeaderContext `json:"context"`
}

// HeaderContext identifies the caller
type HeaderContext struct {
	Jsns      string   `json:"_jsns"`
	AuthToken *Content `json:"authToken,omitempty"`
	Format    Format   `json:"format"`
}

// Format asks the server for a JSON response
type Format struct {
	Type string `json:"type"`
}

// ResponseEnvelope is the raw response envelope; the body holds either the
// named response or a Fault.
type ResponseEnvelope struct {
	Body map[string]json.RawMessage `json:"Body"`
}

// Fault is the SOAP fault returned on request failure
type Fault struct {
	Code struct {
		Value string `json:"Value"`
	} `json:"Code"`
	Reason struct {
		Text string `json:"Text"`
	} `json:"Reason"`
	Detail struct {
		Error struct {
			Code  string `json:"Code"`
			Trace string `json:"Trace,omitempty"`
		} `json:"Error"`
	} `json:"Detail"`
}

// GetAccountDistributionListsRequest lists the account's lists
type GetAccountDistributionListsRequest struct {
	Jsns     string `json:"_jsns"`
	OwnerOf  bool   `json:"ownerOf"`
	MemberOf string `json:"memberOf"`
	Attrs    string `json:"attrs,omitempty"`
}

// DistributionListObject is a list element of the account listing and detail responses
type DistributionListObject struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	DisplayName string          `json:"d,omitempty"`
	IsOwner     bool            `json:"isOwner,omitempty"`
	IsMember    bool            `json:"isMember,omitempty"`
	Attrs       map[string]any  `json:"_attrs,omitempty"`
	Owners      []OwnersElement `json:"owners,omitempty"`
}

// OwnersElement wraps the owner list of a distribution list
type OwnersElement struct {
	Owner []OwnerObject `json:"owner"`
}

// OwnerObject is one owner of a distribution list
type OwnerObject struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

// GetAccountDistributionListsResponse is the account listing response
type GetAccountDistributionListsResponse struct {
	DL []DistributionListObject `json:"dl"`
}

// DistributionListSelector addresses a list by id or name
type DistributionListSelector struct {
	By      string `json:"by,omitempty"`
	Content string `json:"_content"`
}

// GetDistributionListRequest fetches a single list
type GetDistributionListRequest struct {
	Jsns       string                   `json:"_jsns"`
	NeedOwners bool                     `json:"needOwners"`
	DL         DistributionListSelector `json:"dl"`
}

// GetDistributionListResponse holds the requested list
type GetDistributionListResponse struct {
	DL []DistributionListObject `json:"dl"`
}

// GetDistributionListMembersRequest fetches a page of members
type GetDistributionListMembersRequest struct {
	Jsns   string                   `json:"_jsns"`
	Offset int                      `json:"offset"`
	Limit  int                      `json:"limit"`
	DL     DistributionListSelector `json:"dl"`
}

// GetDistributionListMembersResponse is one page of members
type GetDistributionListMembersResponse struct {
	DLM   []Content `json:"dlm"`
	More  bool      `json:"more"`
	Total int       `json:"total"`
}

// ActionSelector is the action element of ContactAction and FolderAction
type ActionSelector struct {
	Op        string `json:"op"`
	ID        string `json:"id"`
	Folder    string `json:"l,omitempty"`
	Recursive bool   `json:"recursive,omitempty"`
}

// ActionRequest is a ContactActionRequest or a FolderActionRequest
type ActionRequest struct {
	Jsns   string         `json:"_jsns"`
	Action ActionSelector `json:"action"`
}

// GetShareInfoRequest lists the shares granted to the account
type GetShareInfoRequest struct {
	Jsns        string `json:"_jsns"`
	IncludeSelf bool   `json:"includeSelf"`
}

// ShareInfoObject describes one share
type ShareInfoObject struct {
	OwnerID     string `json:"ownerId"`
	OwnerEmail  string `json:"ownerEmail"`
	OwnerName   string `json:"ownerName,omitempty"`
	FolderID    int    `json:"folderId"`
	FolderUUID  string `json:"folderUuid,omitempty"`
	FolderPath  string `json:"folderPath"`
	View        string `json:"view,omitempty"`
	Rights      string `json:"rights,omitempty"`
	GranteeType string `json:"granteeType,omitempty"`
}

// GetShareInfoResponse holds the shares
type GetShareInfoResponse struct {
	Share []ShareInfoObject `json:"share"`
}

// LinkObject is a mountpoint to create
type LinkObject struct {
	Parent   string `json:"l"`
	Name     string `json:"name"`
	OwnerZID string `json:"zid"`
	RemoteID string `json:"rid"`
	View     string `json:"view"`
}

// CreateMountpointRequest creates a single mountpoint. RequestID is set when
// the request is part of a batch.
type CreateMountpointRequest struct {
	Jsns      string     `json:"_jsns"`
	RequestID string     `json:"requestId,omitempty"`
	Link      LinkObject `json:"link"`
}

// CreateMountpointResponse carries the created link
type CreateMountpointResponse struct {
	RequestID string `json:"requestId,omitempty"`
	Link      []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"link"`
}

// BatchRequest sends several mountpoint creations in one call. With onerror
// "continue" a failing request does not prevent the following ones.
type BatchRequest struct {
	Jsns             string                    `json:"_jsns"`
	OnError          string                    `json:"onerror"`
	CreateMountpoint []CreateMountpointRequest `json:"CreateMountpointRequest"`
}

// BatchFault is the fault of one request of a batch
type BatchFault struct {
	RequestID string `json:"requestId"`
	Fault
}

// BatchResponse holds one response or fault per batched request
type BatchResponse struct {
	CreateMountpoint []CreateMountpointResponse `json:"CreateMountpointResponse"`
	Fault            []BatchFault               `json:"Fault"`
}

func (o *DistributionListObject) toModel() *model.DistributionList {
	dl := &model.DistributionList{
		ID:          o.ID,
		Email:       o.Name,
		DisplayName: o.DisplayName,
		IsOwner:     o.IsOwner,
		IsMember:    o.IsMember,
	}
	if v, ok := o.Attrs["displayName"].(string); ok && dl.DisplayName == "" {
		dl.DisplayName = v
	}
	if v, ok := o.Attrs["description"].(string); ok {
		dl.Description = v
	}
	return dl
}

func (o *DistributionListObject) toDetails() *model.DistributionListDetails {
	details := &model.DistributionListDetails{DistributionList: *o.toModel()}
	for _, element := range o.Owners {
		for _, owner := range element.Owner {
			details.Owners = append(details.Owners, owner.Name)
		}
	}
	return details
}

func (o *ShareInfoObject) toModel() *model.ShareInfo {
	return &model.ShareInfo{
		OwnerID:     o.OwnerID,
		OwnerEmail:  o.OwnerEmail,
		OwnerName:   o.OwnerName,
		FolderID:    strconv.Itoa(o.FolderID),
		FolderPath:  o.FolderPath,
		FolderUUID:  o.FolderUUID,
		GranteeType: o.GranteeType,
		Rights:      o.Rights,
		View:        o.View,
	}
}

func memberAddresses(dlm []Content) []string {
	members := make([]string, 0, len(dlm))
	for _, m := range dlm {
		if address := strings.TrimSpace(m.Content); address != "" {
			members = append(members, address)
		}
	}
	return members
}
