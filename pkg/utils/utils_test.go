package utils

import (
	"encoding/json"
	"testing"

	"github.com/rxtech-lab/argo-quant/internal/optimizer"
	"github.com/stretchr/testify/suite"
)

type UtilsTestSuite struct {
	suite.Suite
}

func TestUtilsSuite(t *testing.T) {
	suite.Run(t, new(UtilsTestSuite))
}

type testConfig struct {
	Name    string `json:"name" jsonschema:"description=The name of the config"`
	Value   int    `json:"value" jsonschema:"description=A numeric value"`
	Enabled bool   `json:"enabled"`
}

type nestedConfig struct {
	ID     string     `json:"id"`
	Config testConfig `json:"config"`
}

func (suite *UtilsTestSuite) decode(schema string) map[string]interface{} {
	var result map[string]interface{}
	suite.Require().NoError(json.Unmarshal([]byte(schema), &result))

	return result
}

func (suite *UtilsTestSuite) TestGetSchemaFromConfigSimple() {
	schema, err := GetSchemaFromConfig(testConfig{}, "test-config")
	suite.Require().NoError(err)

	result := suite.decode(schema)
	suite.Equal("test-config", result["title"])
	suite.NotContains(result, "$ref")

	properties, ok := result["properties"].(map[string]interface{})
	suite.Require().True(ok)
	suite.Contains(properties, "name")
	suite.Contains(properties, "value")
	suite.Contains(properties, "enabled")

	name := properties["name"].(map[string]interface{})
	suite.Equal("The name of the config", name["description"])
}

func (suite *UtilsTestSuite) TestGetSchemaFromConfigNested() {
	schema, err := GetSchemaFromConfig(nestedConfig{}, "nested")
	suite.Require().NoError(err)

	result := suite.decode(schema)
	suite.NotContains(result, "$defs")

	properties := result["properties"].(map[string]interface{})
	config := properties["config"].(map[string]interface{})
	suite.Equal("object", config["type"])
	suite.Contains(config["properties"], "value")
}

func (suite *UtilsTestSuite) TestOptimizerConfigSchema() {
	schema, err := GetSchemaFromConfig(optimizer.DefaultConfig(), "optimizer-config")
	suite.Require().NoError(err)

	properties := suite.decode(schema)["properties"].(map[string]interface{})
	portfolios := properties["portfolios"].(map[string]interface{})
	suite.EqualValues(1000, portfolios["default"])
}
