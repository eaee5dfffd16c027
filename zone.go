package sitetheory

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsroute53"
	"github.com/aws/jsii-runtime-go"
)

// lookupHostedZone resolves the pre-existing public zone.
//
// A configured zone id is imported directly; otherwise the zone is found by name
// through a context lookup, which caches into cdk.context.json on first synth.
func lookupHostedZone(stack awscdk.Stack, cfg Config) awsroute53.IHostedZone {
	if cfg.HostedZone.HostedZoneID != "" {
		return awsroute53.HostedZone_FromHostedZoneAttributes(stack, jsii.String(idHostedZone), &awsroute53.HostedZoneAttributes{
			HostedZoneId: jsii.String(cfg.HostedZone.HostedZoneID),
			ZoneName:     jsii.String(cfg.ZoneName()),
		})
	}
	return awsroute53.HostedZone_FromLookup(stack, jsii.String(idHostedZone), &awsroute53.HostedZoneProviderProps{
		DomainName: jsii.String(cfg.ZoneName()),
	})
}
