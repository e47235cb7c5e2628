package catalog

import (
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"

	"github.com/RedlineAI/redline/engine/domain"
	"github.com/RedlineAI/redline/pkg/repo"
)

// newVehicleRepo creates a Neo4j-backed repository for Vehicle nodes.
func newVehicleRepo(driver neo4j.DriverWithContext) *repo.Neo4jRepo[domain.Vehicle, string] {
	return repo.NewNeo4jRepo[domain.Vehicle, string](
		driver,
		"Vehicle",
		vehicleToMap,
		vehicleFromRecord,
	)
}

func vehicleToMap(v domain.Vehicle) map[string]any {
	return map[string]any{
		"id":                v.ID,
		"make":              v.Make,
		"model":             v.Model,
		"badge":             v.Badge,
		"fuel_type":         v.FuelType,
		"transmission_type": v.TransmissionType,
		"drive_type":        v.DriveType,
	}
}

func vehicleFromRecord(rec *neo4j.Record) (domain.Vehicle, error) {
	node, _, err := neo4j.GetRecordValue[dbtype.Node](rec, "n")
	if err != nil {
		return domain.Vehicle{}, err
	}
	return vehicleFromProps(node.Props), nil
}

func vehicleFromProps(props map[string]any) domain.Vehicle {
	return domain.Vehicle{
		ID:               strProp(props, "id"),
		Make:             strProp(props, "make"),
		Model:            strProp(props, "model"),
		Badge:            strProp(props, "badge"),
		FuelType:         strProp(props, "fuel_type"),
		TransmissionType: strProp(props, "transmission_type"),
		DriveType:        strProp(props, "drive_type"),
	}
}

func strProp(props map[string]any, key string) string {
	if v, ok := props[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
