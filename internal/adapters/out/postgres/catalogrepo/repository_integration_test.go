package catalogrepo_test

import (
	"context"
	"testing"

	"brokerage/internal/adapters/out/postgres/catalogrepo"
	"brokerage/internal/adapters/out/postgres/pgtest"
	"brokerage/internal/core/domain/model/kernel"
	"brokerage/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
)

type CatalogRepositoryIntegrationTestSuite struct {
	suite.Suite
	pg         *pgtest.Database
	repository *catalogrepo.GormCatalogRepository
}

func (suite *CatalogRepositoryIntegrationTestSuite) SetupSuite() {
	pg, err := pgtest.Start(context.Background())
	suite.Require().NoError(err)
	suite.pg = pg
	suite.repository = catalogrepo.NewGormCatalogRepository(pg.DB)
}

func (suite *CatalogRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.pg.Truncate())
}

func (suite *CatalogRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.pg != nil {
		suite.Require().NoError(suite.pg.Terminate(context.Background()))
	}
}

func (suite *CatalogRepositoryIntegrationTestSuite) TestGetClient_Existing_ReturnsClient() {
	id, err := suite.pg.SeedClient("ACME SA")
	suite.Require().NoError(err)

	client, err := suite.repository.GetClient(context.Background(), id)

	suite.Require().NoError(err)
	suite.Equal(id, client.ID())
	suite.Equal("ACME SA", client.Name())
}

func (suite *CatalogRepositoryIntegrationTestSuite) TestGetClient_Missing_ReturnsNotFound() {
	_, err := suite.repository.GetClient(context.Background(), kernel.NewUUID())

	suite.ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *CatalogRepositoryIntegrationTestSuite) TestGetAssetByTicker_NormalizesInput() {
	id, err := suite.pg.SeedAsset("GGAL", "Grupo Financiero Galicia")
	suite.Require().NoError(err)

	asset, err := suite.repository.GetAssetByTicker(context.Background(), "  ggal ")

	suite.Require().NoError(err)
	suite.Equal(id, asset.ID())
	suite.Equal("GGAL", asset.Ticker())
	suite.Equal("Grupo Financiero Galicia", asset.Name())
}

func (suite *CatalogRepositoryIntegrationTestSuite) TestGetAssetByTicker_Missing_ReturnsNotFound() {
	_, err := suite.repository.GetAssetByTicker(context.Background(), "NOPE")

	suite.ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *CatalogRepositoryIntegrationTestSuite) TestGetAssetByTicker_Blank_ReturnsRequired() {
	_, err := suite.repository.GetAssetByTicker(context.Background(), "   ")

	suite.ErrorIs(err, errs.ErrValueIsRequired)
}

func (suite *CatalogRepositoryIntegrationTestSuite) TestCanceledContext_ReturnsDependencyError() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := suite.repository.GetAssetByTicker(ctx, "GGAL")

	suite.ErrorIs(err, errs.ErrDependency)
}

func TestCatalogRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(CatalogRepositoryIntegrationTestSuite))
}
