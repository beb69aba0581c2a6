package azurestore

import "testing"

func TestParseConnectionString_Basic(t *testing.T) {
	s := "DefaultEndpointsProtocol=https;AccountName=myacct;AccountKey=c2VjcmV0;EndpointSuffix=core.windows.net"
	got, err := parseConnectionString(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.accountName != "myacct" {
		t.Errorf("accountName = %q, want myacct", got.accountName)
	}
	if got.accountKey != "c2VjcmV0" {
		t.Errorf("accountKey = %q, want c2VjcmV0", got.accountKey)
	}
	if want := "https://myacct.blob.core.windows.net"; got.endpoint != want {
		t.Errorf("endpoint = %q, want %q", got.endpoint, want)
	}
}

func TestParseConnectionString_ExplicitBlobEndpoint(t *testing.T) {
	s := "AccountName=myacct;AccountKey=c2VjcmV0;BlobEndpoint=http://127.0.0.1:10000/myacct"
	got, err := parseConnectionString(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := "http://127.0.0.1:10000/myacct"; got.endpoint != want {
		t.Errorf("endpoint = %q, want %q", got.endpoint, want)
	}
	if !isPlaintext(got.endpoint) {
		t.Errorf("isPlaintext(%q) = false, want true", got.endpoint)
	}
}

func TestParseConnectionString_DefaultSuffix(t *testing.T) {
	s := "AccountName=myacct;AccountKey=c2VjcmV0"
	got, err := parseConnectionString(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := "https://myacct.blob.core.windows.net"; got.endpoint != want {
		t.Errorf("endpoint = %q, want %q", got.endpoint, want)
	}
}

func TestParseConnectionString_QuotedValue(t *testing.T) {
	s := `AccountName="myacct";AccountKey="c2VjcmV0"`
	got, err := parseConnectionString(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.accountName != "myacct" || got.accountKey != "c2VjcmV0" {
		t.Errorf("got %+v, want quotes stripped", got)
	}
}

func TestParseConnectionString_MissingAccountKey(t *testing.T) {
	_, err := parseConnectionString("AccountName=myacct")
	if err == nil {
		t.Fatal("expected error for missing AccountKey")
	}
}

func TestParseConnectionString_MalformedSegment(t *testing.T) {
	_, err := parseConnectionString("AccountName=myacct;garbage;AccountKey=c2VjcmV0")
	if err == nil {
		t.Fatal("expected error for malformed segment")
	}
}

func TestIsPlaintext_HTTPS(t *testing.T) {
	if isPlaintext("https://myacct.blob.core.windows.net") {
		t.Error("expected false for https endpoint")
	}
}
