package azurestore

import (
	"fmt"
	"strings"
)

type parsedConnString struct {
	accountName string
	accountKey  string
	endpoint    string
}

// parseConnectionString parses an Azure Storage connection string: ";"
// separated key=value pairs with case-insensitive keys.
// Recognized keys: AccountName, AccountKey, BlobEndpoint,
// DefaultEndpointsProtocol, EndpointSuffix. When BlobEndpoint is absent but
// an EndpointSuffix is given, the endpoint is synthesized as
// "<scheme>://<account>.blob.<suffix>".
func parseConnectionString(s string) (parsedConnString, error) {
	fields := map[string]string{}
	for _, part := range strings.Split(s, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 {
			return parsedConnString{}, fmt.Errorf("malformed connection string segment %q", part)
		}
		key := strings.ToLower(strings.TrimSpace(kv[0]))
		val := strings.Trim(strings.TrimSpace(kv[1]), `"`)
		fields[key] = val
	}

	accountName := fields["accountname"]
	accountKey := fields["accountkey"]
	if accountName == "" || accountKey == "" {
		return parsedConnString{}, fmt.Errorf("connection string missing AccountName or AccountKey")
	}

	endpoint := fields["blobendpoint"]
	if endpoint == "" {
		suffix := fields["endpointsuffix"]
		if suffix == "" {
			suffix = "core.windows.net"
		}
		scheme := fields["defaultendpointsprotocol"]
		if scheme == "" {
			scheme = "https"
		}
		endpoint = fmt.Sprintf("%s://%s.blob.%s", scheme, accountName, suffix)
	}

	return parsedConnString{accountName: accountName, accountKey: accountKey, endpoint: endpoint}, nil
}

// isPlaintext reports whether the endpoint should be accessed over plain
// HTTP: true when the endpoint scheme is http. DefaultEndpointsProtocol
// counts only through the endpoint it synthesizes when BlobEndpoint is absent.
func isPlaintext(endpoint string) bool {
	return strings.HasPrefix(strings.ToLower(endpoint), "http://")
}
