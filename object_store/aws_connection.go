package object_store

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/rs/dnscache"
	"github.com/turbot/tailpipe-sales-etl/constants"
	"golang.org/x/sync/semaphore"
)

const defaultAwsRegion = "us-east-1"

// AwsConnection holds the credentials and client options used to reach S3
type AwsConnection struct {
	DefaultRegion    *string `hcl:"default_region,optional"`
	Profile          *string `hcl:"profile,optional"`
	AccessKey        *string `hcl:"access_key,optional"`
	SecretKey        *string `hcl:"secret_key,optional"`
	SessionToken     *string `hcl:"session_token,optional"`
	EndpointUrl      *string `hcl:"endpoint_url,optional"`
	S3ForcePathStyle *bool   `hcl:"s3_force_path_style,optional"`
}

func (c *AwsConnection) Validate() error {
	if c.AccessKey != nil && c.SecretKey == nil {
		return fmt.Errorf("access_key set without secret_key")
	}

	if c.AccessKey == nil && c.SecretKey != nil {
		return fmt.Errorf("secret_key set without access_key")
	}

	return nil
}

func (c *AwsConnection) Identifier() string {
	return "aws"
}

func (c *AwsConnection) GetClientConfiguration(ctx context.Context) (*aws.Config, error) {
	var configOptions []func(*config.LoadOptions) error

	// profile
	if c.Profile != nil {
		configOptions = append(configOptions, config.WithSharedConfigProfile(aws.ToString(c.Profile)))
	}

	// access keys
	if c.AccessKey != nil && c.SecretKey != nil {
		provider := credentials.NewStaticCredentialsProvider(aws.ToString(c.AccessKey), aws.ToString(c.SecretKey), aws.ToString(c.SessionToken))
		configOptions = append(configOptions, config.WithCredentialsProvider(provider))
	}

	// shared http client
	configOptions = append(configOptions, config.WithHTTPClient(sharedHTTPClient))

	cfg, err := config.LoadDefaultConfig(ctx, configOptions...)
	if err != nil {
		return nil, fmt.Errorf("error loading AWS config: %w", err)
	}

	// if no region from base config, apply default region
	if cfg.Region == "" {
		cfg.Region = defaultAwsRegion
		if c.DefaultRegion != nil {
			cfg.Region = *c.DefaultRegion
		}
	}

	// a failed request aborts the run - no retries
	cfg.Retryer = func() aws.Retryer {
		return retry.AddWithMaxAttempts(retry.NewStandard(), 1)
	}

	return &cfg, nil
}

// GetEndpointUrl returns the custom endpoint from config or the AWS_ENDPOINT_URL environment variable
func (c *AwsConnection) GetEndpointUrl() string {
	if c.EndpointUrl != nil {
		return *c.EndpointUrl
	}
	return os.Getenv(constants.EnvAwsEndpoint)
}

// Initialize a single HTTP client shared across all AWS SDK clients, with a DNS cache
// and a limit on parallel DNS lookups.
func initializeHTTPClient() aws.HTTPClient {
	dnsLookupMaxParallel := readEnvVarToInt("SALES_ETL_AWS_DNS_LOOKUP_MAX_PARALLEL", 25)
	// Set to 0 to disable the refresh, -1 to disable the DNS cache completely
	dnsCacheRefreshIntervalSecs := readEnvVarToInt("SALES_ETL_AWS_DNS_CACHE_REFRESH_INTERVAL_SECS", 300)

	var resolver = &dnscache.Resolver{}
	if dnsCacheRefreshIntervalSecs > 0 {
		go func() {
			t := time.NewTicker(time.Duration(dnsCacheRefreshIntervalSecs) * time.Second)
			defer t.Stop()
			for range t.C {
				resolver.Refresh(true)
			}
		}()
	}

	client := awshttp.NewBuildableClient()

	if dnsCacheRefreshIntervalSecs >= 0 {
		sem := semaphore.NewWeighted(int64(dnsLookupMaxParallel))
		dialer := client.GetDialer()

		client = client.WithTransportOptions(func(tr *http.Transport) {
			tr.DialContext = func(ctx context.Context, network string, addr string) (conn net.Conn, err error) {
				host, port, err := net.SplitHostPort(addr)
				if err != nil {
					return nil, err
				}

				if err := sem.Acquire(ctx, 1); err != nil {
					return nil, err
				}
				ips, err := resolver.LookupHost(ctx, host)
				sem.Release(1)
				if err != nil {
					return nil, err
				}

				for _, ip := range ips {
					conn, err = dialer.DialContext(ctx, network, net.JoinHostPort(ip, port))
					if err == nil {
						break
					}
				}
				return
			}
		})
	}

	return client
}

var sharedHTTPClient = initializeHTTPClient()

// Helper function for integer based environment variables.
func readEnvVarToInt(name string, defaultVal int) int {
	val := defaultVal
	envValue := os.Getenv(name)
	if envValue != "" {
		i, err := strconv.Atoi(envValue)
		if err == nil {
			val = i
		}
	}
	return val
}
