// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package constants

// SOAP namespaces
const (
	NamespaceAccount = "urn:zimbraAccount"
	NamespaceMail    = "urn:zimbraMail"
)

// SOAP fault codes mapped to not found errors
const (
	FaultNoSuchDistributionList = "account.NO_SUCH_DISTRIBUTION_LIST"
	FaultNoSuchFolder           = "mail.NO_SUCH_FOLDER"
	FaultNoSuchContact          = "mail.NO_SUCH_CONTACT"
	FaultAuthExpired            = "service.AUTH_EXPIRED"
	FaultAuthRequired           = "service.AUTH_REQUIRED"
)

// SOAP request names
const (
	GetAccountDistributionListsRequest = "GetAccountDistributionListsRequest"
	GetDistributionListRequest         = "GetDistributionListRequest"
	GetDistributionListMembersRequest  = "GetDistributionListMembersRequest"
	ContactActionRequest               = "ContactActionRequest"
	FolderActionRequest                = "FolderActionRequest"
	GetShareInfoRequest                = "GetShareInfoRequest"
	CreateMountpointRequest            = "CreateMountpointRequest"
	BatchRequest                       = "BatchRequest"
)

// NoOpRequest is used to check that the SOAP endpoint answers
const NoOpRequest = "NoOpRequest"
