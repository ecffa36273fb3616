package place_directory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mofussil/mofussil/pkg/elastic_client"
)

// searchPlaceIndex runs a search-as-you-type query against the place name
// index the indexer maintains, returning the best matching place
// identifier or empty when nothing scores.
func searchPlaceIndex(ctx context.Context, name string) (string, error) {
	if elastic_client.Client == nil {
		return "", nil
	}

	queryBody := fmt.Sprintf(`{
		"size": 1,
		"query": {
			"multi_match": {
				"query": %q,
				"type": "bool_prefix",
				"fields": [
					"Name.search_as_you_type",
					"Name.search_as_you_type._2gram",
					"Name.search_as_you_type._3gram"
				]
			}
		}
	}`, name)

	resp, err := elastic_client.Client.Search(
		elastic_client.Client.Search.WithContext(ctx),
		elastic_client.Client.Search.WithIndex("mofussil-places-*"),
		elastic_client.Client.Search.WithBody(strings.NewReader(queryBody)),
	)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.IsError() {
		return "", fmt.Errorf("place index search failed: %s", resp.Status())
	}

	var searchResponse struct {
		Hits struct {
			Hits []struct {
				Source struct {
					PrimaryIdentifier string
				} `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}

	responseBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if err := json.Unmarshal(responseBytes, &searchResponse); err != nil {
		return "", err
	}

	if len(searchResponse.Hits.Hits) == 0 {
		return "", nil
	}

	return searchResponse.Hits.Hits[0].Source.PrimaryIdentifier, nil
}
