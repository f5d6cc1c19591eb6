package pcapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/specialistvlad/pcwizard/internal/ctxlog"
	"github.com/specialistvlad/pcwizard/internal/wizard"
	"resty.dev/v3"
)

// Client talks to one cluster API endpoint.
type Client struct {
	http *resty.Client
}

// New returns a client for the API rooted at baseURL.
func New(baseURL string) *Client {
	c := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json")
	return &Client{http: c}
}

// Close releases the underlying HTTP resources.
func (c *Client) Close() error {
	return c.http.Close()
}

var _ wizard.Submitter = (*Client)(nil)

func (c *Client) request(ctx context.Context, region string) *resty.Request {
	req := c.http.R().SetContext(ctx)
	if region != "" {
		req.SetQueryParam("region", region)
	}
	return req
}

// ListClusters returns every cluster of region, following pagination.
func (c *Client) ListClusters(ctx context.Context, region string) ([]ClusterSummary, error) {
	var all []ClusterSummary
	token := ""
	for page := 1; ; page++ {
		var body listClustersResponse
		req := c.request(ctx, region).SetResult(&body)
		if token != "" {
			req.SetQueryParam("nextToken", token)
		}
		resp, err := req.Get("/v3/clusters")
		if err := check(ctx, resp, err, false); err != nil {
			return nil, fmt.Errorf("list clusters: %w", err)
		}
		all = append(all, body.Clusters...)
		ctxlog.FromContext(ctx).Debug("Cluster page listed.", "page", page, "clusters", len(body.Clusters))

		if body.NextToken == "" {
			return all, nil
		}
		token = body.NextToken
	}
}

// ListClusterNames returns the names of every cluster of region.
func (c *Client) ListClusterNames(ctx context.Context, region string) ([]string, error) {
	clusters, err := c.ListClusters(ctx, region)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(clusters))
	for _, cl := range clusters {
		names = append(names, cl.ClusterName)
	}
	return names, nil
}

// DescribeCluster returns the details of a cluster, or ErrNotFound.
func (c *Client) DescribeCluster(ctx context.Context, name, region string) (*ClusterDescription, error) {
	var body ClusterDescription
	resp, err := c.request(ctx, region).
		SetPathParam("clusterName", name).
		SetResult(&body).
		Get("/v3/clusters/{clusterName}")
	if err := check(ctx, resp, err, false); err != nil {
		return nil, fmt.Errorf("describe cluster %q: %w", name, err)
	}
	return &body, nil
}

// GetClusterConfiguration downloads the YAML configuration of a cluster.
func (c *Client) GetClusterConfiguration(ctx context.Context, name, region string) ([]byte, error) {
	desc, err := c.DescribeCluster(ctx, name, region)
	if err != nil {
		return nil, err
	}
	if desc.ClusterConfiguration.URL == "" {
		return nil, fmt.Errorf("cluster %q has no configuration URL", name)
	}

	resp, err := c.http.R().SetContext(ctx).Get(desc.ClusterConfiguration.URL)
	if err := check(ctx, resp, err, false); err != nil {
		return nil, fmt.Errorf("download configuration of cluster %q: %w", name, err)
	}
	return resp.Bytes(), nil
}

// CreateCluster submits a new cluster. With dryRun the API only validates.
func (c *Client) CreateCluster(ctx context.Context, name, region string, configuration []byte, dryRun bool) (*ChangeResult, error) {
	var body ChangeResult
	resp, err := c.request(ctx, region).
		SetQueryParam("dryrun", strconv.FormatBool(dryRun)).
		SetHeader("Content-Type", "application/json").
		SetBody(createClusterRequest{ClusterName: name, ClusterConfiguration: string(configuration)}).
		SetResult(&body).
		Post("/v3/clusters")
	if err := check(ctx, resp, err, dryRun); err != nil {
		return nil, fmt.Errorf("create cluster %q: %w", name, err)
	}
	dryRunResult(ctx, resp, &body)
	return &body, nil
}

// UpdateCluster submits a new configuration for an existing cluster.
func (c *Client) UpdateCluster(ctx context.Context, name, region string, configuration []byte, dryRun bool) (*ChangeResult, error) {
	var body ChangeResult
	resp, err := c.request(ctx, region).
		SetQueryParam("dryrun", strconv.FormatBool(dryRun)).
		SetPathParam("clusterName", name).
		SetHeader("Content-Type", "application/json").
		SetBody(updateClusterRequest{ClusterConfiguration: string(configuration)}).
		SetResult(&body).
		Put("/v3/clusters/{clusterName}")
	if err := check(ctx, resp, err, dryRun); err != nil {
		return nil, fmt.Errorf("update cluster %q: %w", name, err)
	}
	dryRunResult(ctx, resp, &body)
	return &body, nil
}

// Submit creates or updates the cluster described by sub.
func (c *Client) Submit(ctx context.Context, sub wizard.Submission) error {
	submit := c.CreateCluster
	if sub.Editing {
		submit = c.UpdateCluster
	}
	res, err := submit(ctx, sub.ClusterName, sub.Region, sub.Configuration, sub.DryRun)
	if err != nil {
		return err
	}
	logger := ctxlog.FromContext(ctx)
	for _, m := range res.ValidationMessages {
		logger.Warn("Configuration validation message.", "level", m.Level, "type", m.Type, "message", m.Message)
	}
	logger.Info("Cluster request accepted.", "cluster", sub.ClusterName, "status", res.Cluster.ClusterStatus, "dryRun", sub.DryRun)
	return nil
}

// dryRunResult fills body from a 412 dry-run answer, which carries the
// validation messages in an error-status body.
func dryRunResult(ctx context.Context, resp *resty.Response, body *ChangeResult) {
	if resp.StatusCode() == http.StatusPreconditionFailed {
		decodeBody(ctx, resp, body)
	}
}

// decodeBody parses a JSON body that resty left undecoded because of its
// status. A body that does not parse is logged and leaves v untouched.
func decodeBody(ctx context.Context, resp *resty.Response, v any) {
	if err := json.Unmarshal(resp.Bytes(), v); err != nil {
		ctxlog.FromContext(ctx).Debug("Ignoring undecodable response body.",
			"status", resp.StatusCode(), "error", err)
	}
}

// check maps transport errors and error statuses to Go errors. A dry run
// that would have succeeded is answered with 412, which counts as success.
func check(ctx context.Context, resp *resty.Response, err error, dryRun bool) error {
	if err != nil {
		return err
	}
	if !resp.IsError() {
		return nil
	}
	status := resp.StatusCode()
	if dryRun && status == http.StatusPreconditionFailed {
		return nil
	}
	if status == http.StatusNotFound {
		return ErrNotFound
	}
	var body errorResponse
	decodeBody(ctx, resp, &body)
	return &APIError{StatusCode: status, Message: body.Message}
}
