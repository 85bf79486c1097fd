package fetcher

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsmiddleware "github.com/aws/aws-sdk-go-v2/aws/middleware"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/smithy-go/middleware"
	smithyhttp "github.com/aws/smithy-go/transport/http"
	"github.com/rs/zerolog"
)

const userAgentToken = "spotscout/1.0"

// SessionOptions parameterise AWS SDK configuration loading.
type SessionOptions struct {
	Region      string
	Profile     string
	EndpointURL string
	MaxAttempts int
}

// LoadAWSConfig resolves credentials and shared configuration for the SDK.
func LoadAWSConfig(ctx context.Context, opts SessionOptions, logger zerolog.Logger) (aws.Config, error) {
	loadOpts := []func(*config.LoadOptions) error{
		config.WithRegion(opts.Region),
	}
	if opts.Profile != "" {
		loadOpts = append(loadOpts, config.WithSharedConfigProfile(opts.Profile))
	}

	endpoint := opts.EndpointURL
	if endpoint == "" {
		endpoint = os.Getenv("AWS_ENDPOINT_URL")
	}
	if endpoint != "" {
		loadOpts = append(loadOpts, config.WithBaseEndpoint(endpoint))
	}
	if opts.MaxAttempts > 0 {
		loadOpts = append(loadOpts, config.WithRetryMaxAttempts(opts.MaxAttempts))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("load aws config: %w", err)
	}

	cfg.APIOptions = append(cfg.APIOptions, userAgentMiddleware, operationLogger(logger))
	return cfg, nil
}

func userAgentMiddleware(stack *middleware.Stack) error {
	return stack.Build.Add(middleware.BuildMiddlewareFunc("SpotscoutUserAgent", func(ctx context.Context, input middleware.BuildInput, next middleware.BuildHandler) (
		middleware.BuildOutput, middleware.Metadata, error,
	) {
		if req, ok := input.Request.(*smithyhttp.Request); ok {
			ua := req.Header.Get("User-Agent")
			if ua == "" {
				req.Header.Set("User-Agent", userAgentToken)
			} else {
				req.Header.Set("User-Agent", ua+" "+userAgentToken)
			}
		}
		return next.HandleBuild(ctx, input)
	}), middleware.After)
}

func operationLogger(logger zerolog.Logger) func(*middleware.Stack) error {
	log := logger.With().Str("component", "aws_sdk").Logger()
	return func(stack *middleware.Stack) error {
		return stack.Initialize.Add(middleware.InitializeMiddlewareFunc("SpotscoutOperationLogger", func(ctx context.Context, input middleware.InitializeInput, next middleware.InitializeHandler) (
			middleware.InitializeOutput, middleware.Metadata, error,
		) {
			log.Debug().Str("operation", awsmiddleware.GetOperationName(ctx)).Msg("aws api call")
			return next.HandleInitialize(ctx, input)
		}), middleware.Before)
	}
}
