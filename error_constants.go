package sitetheory

const (
	ErrorCodeInvalidConfig     = "site.invalid_config"
	ErrorCodeConfigRead        = "site.config_read"
	ErrorCodeAssetsMissing     = "site.assets_missing"
	ErrorCodeLookupEnvironment = "site.lookup_environment"
)

const (
	errorMessageConfigRead        = "unable to read site config"
	errorMessageConfigParse       = "unable to parse site config"
	errorMessageAssetsMissing     = "asset directory not found"
	errorMessageAssetsNotDir      = "asset path is not a directory"
	errorMessageLookupEnvironment = "hosted zone lookup requires an explicit account and region"
)
