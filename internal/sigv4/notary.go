// Package sigv4 implements the AWS Signature Version 4 signing algorithm
// needed to address an S3-compatible object store, per spec.md §4.1. A
// Notary is constructed with a region and a key pair and freezes the
// signing time at construction; callers that need a fresh timestamp
// construct a new Notary, mirroring h5s3's s3::notary.
package sigv4

import (
	"sort"
	"strings"
	"time"

	"github.com/h5s3/h5s3/internal/hashing"
)

// Header is a single canonicalized request header (name, value).
type Header struct {
	Name  string
	Value string
}

// QueryParam is a single request query parameter (name, value).
type QueryParam struct {
	Name  string
	Value string
}

const algorithm = "AWS4-HMAC-SHA256"
const service = "s3"
const terminator = "aws4_request"

// timeFormat is AWS's required "YYYYMMDD'T'HHMMSS'Z'" timestamp shape.
const timeFormat = "20060102T150405Z"

// Notary precomputes the per-day/region signing key described in spec.md
// §4.1 step 3, and issues Authorization header values for individual
// requests from then on.
type Notary struct {
	region      string
	accessKey   string
	date        string // first 8 characters of signingTime
	signingTime string
	signingKey  []byte
}

// New builds a Notary for region, bound to the given access/secret key
// pair, with the signing time fixed to now (UTC).
func New(region, accessKey, secretKey string, now time.Time) *Notary {
	now = now.UTC()
	signingTime := now.Format(timeFormat)
	date := signingTime[:8]

	key := deriveSigningKey(secretKey, date, region)

	return &Notary{
		region:      region,
		accessKey:   accessKey,
		date:        date,
		signingTime: signingTime,
		signingKey:  key,
	}
}

// deriveSigningKey implements spec.md §4.1 step 3:
// HMAC(HMAC(HMAC(HMAC("AWS4"+secret, date), region), "s3"), "aws4_request").
func deriveSigningKey(secretKey, date, region string) []byte {
	kDate := hashing.HMACSha256([]byte("AWS4"+secretKey), []byte(date))
	kRegion := hashing.HMACSha256(kDate, []byte(region))
	kService := hashing.HMACSha256(kRegion, []byte(service))
	return hashing.HMACSha256(kService, []byte(terminator))
}

// SigningTime returns the notary's frozen timestamp, "YYYYMMDD'T'HHMMSS'Z'".
func (n *Notary) SigningTime() string {
	return n.signingTime
}

// Date returns the first eight characters of SigningTime.
func (n *Notary) Date() string {
	return n.date
}

// canonicalRequest builds the canonical request string of spec.md §4.1
// step 1:
//
//	VERB\nURI\n<canonical-query>\n<canonical-headers>\n\n<signed-headers>\n<payload-hash-hex>
func canonicalRequest(verb, uri string, query []QueryParam, headers []Header, payloadHash string) (canonical, signedHeaders string) {
	var cq []string
	for _, q := range query {
		cq = append(cq, q.Name+"="+q.Value)
	}
	sort.Strings(cq)

	var headerLines []string
	var names []string
	for _, h := range headers {
		headerLines = append(headerLines, strings.ToLower(h.Name)+":"+h.Value+"\n")
		names = append(names, strings.ToLower(h.Name))
	}
	signedHeaders = strings.Join(names, ";")

	canonical = strings.Join([]string{
		verb,
		uri,
		strings.Join(cq, "&"),
		strings.Join(headerLines, ""),
		signedHeaders,
		payloadHash,
	}, "\n")

	return canonical, signedHeaders
}

// stringToSign builds the string-to-sign of spec.md §4.1 step 2.
func (n *Notary) stringToSign(canonicalRequest string) string {
	scope := n.date + "/" + n.region + "/" + service + "/" + terminator
	hashed := hashing.Sha256Hex([]byte(canonicalRequest))
	return strings.Join([]string{algorithm, n.signingTime, scope, hashed}, "\n")
}

// AuthorizationHeader computes the Authorization header value for a single
// HTTP request, per spec.md §4.1. headers must include every header that
// will be signed; the Authorization header itself is never signed and
// must be added by the caller after this call.
func (n *Notary) AuthorizationHeader(verb, uri string, query []QueryParam, headers []Header, payloadHash string) string {
	canonical, signedHeaders := canonicalRequest(verb, uri, query, headers, payloadHash)
	sts := n.stringToSign(canonical)
	signature := hashing.HMACSha256Hex(n.signingKey, []byte(sts))

	scope := n.date + "/" + n.region + "/" + service + "/" + terminator

	return algorithm +
		" Credential=" + n.accessKey + "/" + scope +
		",SignedHeaders=" + signedHeaders +
		",Signature=" + signature
}
