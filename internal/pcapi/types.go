package pcapi

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when the API reports that a cluster does not exist.
var ErrNotFound = errors.New("cluster not found")

// APIError is a non-success response other than 404.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("cluster API returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("cluster API returned status %d: %s", e.StatusCode, e.Message)
}

// ClusterSummary is one entry of a cluster listing.
type ClusterSummary struct {
	ClusterName               string `json:"clusterName"`
	Region                    string `json:"region"`
	Version                   string `json:"version"`
	ClusterStatus             string `json:"clusterStatus"`
	CloudFormationStackStatus string `json:"cloudformationStackStatus"`
}

// ClusterDescription is the detailed view of one cluster.
type ClusterDescription struct {
	ClusterSummary
	CreationTime         string `json:"creationTime"`
	ClusterConfiguration struct {
		URL string `json:"url"`
	} `json:"clusterConfiguration"`
}

// ValidationMessage is a configuration warning or error reported by the API.
type ValidationMessage struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Level   string `json:"level"`
	Message string `json:"message"`
}

// ChangeResult is the response to a create or update request.
type ChangeResult struct {
	Cluster            ClusterSummary      `json:"cluster"`
	ValidationMessages []ValidationMessage `json:"validationMessages"`
}

type listClustersResponse struct {
	Clusters  []ClusterSummary `json:"clusters"`
	NextToken string           `json:"nextToken"`
}

type createClusterRequest struct {
	ClusterName          string `json:"clusterName"`
	ClusterConfiguration string `json:"clusterConfiguration"`
}

type updateClusterRequest struct {
	ClusterConfiguration string `json:"clusterConfiguration"`
}

type errorResponse struct {
	Message string `json:"message"`
}
