// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linuxfoundation/lfx-v2-distribution-list-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-distribution-list-service/internal/infrastructure/mock"
	"github.com/linuxfoundation/lfx-v2-distribution-list-service/pkg/config"
	"github.com/linuxfoundation/lfx-v2-distribution-list-service/pkg/constants"
)

func mockConfig() *config.Config {
	cfg := config.Default()
	cfg.RepositorySource = constants.SourceMock
	cfg.SessionSource = constants.SourceMock
	return cfg
}

func TestMockProviders(t *testing.T) {
	ctx := context.Background()
	cfg := mockConfig()

	reader := DistributionListReader(ctx, cfg)
	writer := AddressBookWriter(ctx, cfg)
	assert.IsType(t, &mock.MockGroupware{}, reader)
	assert.Same(t, reader, writer, "reader and writer share the sample groupware")

	lists, err := reader.GetAccountDistributionLists(ctx, model.FilterManager.Query())
	require.NoError(t, err)
	assert.NotEmpty(t, lists)

	assert.IsType(t, &mock.MockSessionRepository{}, SessionRepository(ctx, cfg))
	assert.IsType(t, &mock.MockMessagePublisher{}, MessagePublisher(ctx, cfg))
}

func TestPingers(t *testing.T) {
	ctx := context.Background()

	pingers := Pingers(ctx, mockConfig())
	require.Len(t, pingers, 1)
	assert.Equal(t, "groupware", pingers[0].Name())
	assert.NoError(t, pingers[0].Ping(ctx))
}
