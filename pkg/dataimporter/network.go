package dataimporter

import (
	"fmt"
	"io"
	"time"

	"github.com/mofussil/mofussil/pkg/rbdf"
	"github.com/mofussil/mofussil/pkg/util"
	"gopkg.in/yaml.v3"
)

// NetworkDocument is one YAML document in a bus-network dataset file. A file
// can contain many documents separated by "---", each describing a Place and
// the Stands inside it.
type NetworkDocument struct {
	Dataset  string `yaml:"dataset"`
	Provider string `yaml:"provider"`

	Identifier string `yaml:"identifier"`
	Name       string `yaml:"name"`
	District   string `yaml:"district"`

	Stands []NetworkStand `yaml:"stands"`
}

type NetworkStand struct {
	Identifier string `yaml:"identifier"`
	Name       string `yaml:"name"`
	Category   string `yaml:"category"`

	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
}

func (doc *NetworkDocument) Validate() error {
	if doc.Identifier == "" {
		return fmt.Errorf("place is missing an identifier")
	}
	if doc.Name == "" {
		return fmt.Errorf("place %s is missing a name", doc.Identifier)
	}

	for _, stand := range doc.Stands {
		if stand.Identifier == "" {
			return fmt.Errorf("place %s has a stand with no identifier", doc.Identifier)
		}
		if stand.Name == "" {
			return fmt.Errorf("stand %s is missing a name", stand.Identifier)
		}
	}

	return nil
}

// ParseNetwork decodes every YAML document in the reader into Places and
// their Stands. Documents that fail validation abort the parse so a partial
// network never reaches the database.
func ParseNetwork(reader io.Reader, datasource *rbdf.DataSource) ([]*rbdf.Place, []*rbdf.Stand, error) {
	decoder := yaml.NewDecoder(reader)

	var places []*rbdf.Place
	var stands []*rbdf.Stand

	now := time.Now()

	for {
		var doc NetworkDocument
		err := decoder.Decode(&doc)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to decode network document: %w", err)
		}

		if err := doc.Validate(); err != nil {
			return nil, nil, err
		}

		docSource := &rbdf.DataSource{
			OriginalFormat: "busnet-yaml",
			Provider:       datasource.Provider,
			Dataset:        doc.Dataset,
			Identifier:     datasource.Identifier,
		}
		if docSource.Dataset == "" {
			docSource.Dataset = datasource.Dataset
		}

		place := &rbdf.Place{
			PrimaryIdentifier: fmt.Sprintf(rbdf.PlaceIDFormat, doc.Identifier),

			Name:       doc.Name,
			SearchName: util.NormaliseSearchName(doc.Name),
			District:   doc.District,

			CreationDateTime:     now,
			ModificationDateTime: now,

			DataSource: docSource,
		}
		places = append(places, place)

		for _, networkStand := range doc.Stands {
			stand := &rbdf.Stand{
				PrimaryIdentifier: fmt.Sprintf(rbdf.StandIDFormat, networkStand.Identifier),
				PlaceRef:          place.PrimaryIdentifier,

				Name:     networkStand.Name,
				Category: standCategory(networkStand.Category),

				CreationDateTime:     now,
				ModificationDateTime: now,

				DataSource: docSource,
			}

			if networkStand.Latitude != 0 || networkStand.Longitude != 0 {
				stand.Location = &rbdf.Location{
					Type:        "Point",
					Coordinates: []float64{networkStand.Longitude, networkStand.Latitude},
				}
			}

			stands = append(stands, stand)
		}
	}

	return places, stands, nil
}

func standCategory(category string) rbdf.StandCategory {
	switch category {
	case "private":
		return rbdf.StandCategoryPrivate
	case "regional":
		return rbdf.StandCategoryRegional
	default:
		return rbdf.StandCategoryMain
	}
}
