package tools

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"
)

// Tempo de validade das URLs assinadas.
const StorageReadExpiry = 1 * time.Hour
const StorageWriteExpiry = 15 * time.Minute

// BuildStorageKey monta a chave do objeto no bucket:
// checklist/{workspaceId}/{subworkspaceId|_root}/{checklistId}/{itemId}/{fieldId}/{timestamp}_{filename}
func BuildStorageKey(workspaceID, subWorkspaceID, checklistID, itemID, fieldID int64, filename string, now time.Time) string {
	sub := "_root"
	if subWorkspaceID > 0 {
		sub = fmt.Sprintf("%d", subWorkspaceID)
	}
	filename = sanitizeFilename(filename)
	return fmt.Sprintf("checklist/%d/%s/%d/%d/%d/%d_%s",
		workspaceID, sub, checklistID, itemID, fieldID, now.Unix(), filename)
}

func sanitizeFilename(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "arquivo"
	}
	// só o basename; barras viram traço pra não quebrar o namespace
	if i := strings.LastIndexAny(name, "/\\"); i >= 0 {
		name = name[i+1:]
	}
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}
	return b.String()
}

// PresignGet gera URL assinada de leitura (1h).
func PresignGet(key string, now time.Time) (string, error) {
	return presign("GET", key, StorageReadExpiry, now)
}

// PresignPut gera URL assinada de escrita (15min).
func PresignPut(key string, now time.Time) (string, error) {
	return presign("PUT", key, StorageWriteExpiry, now)
}

// presign implementa o presign estilo SigV4 (query auth) contra um endpoint
// S3-compatível. ENVs: STORAGE_ENDPOINT, STORAGE_BUCKET, STORAGE_REGION,
// STORAGE_ACCESS_KEY, STORAGE_SECRET_KEY.
func presign(method, key string, expiry time.Duration, now time.Time) (string, error) {
	endpoint := strings.TrimRight(strings.TrimSpace(os.Getenv("STORAGE_ENDPOINT")), "/")
	bucket := strings.TrimSpace(os.Getenv("STORAGE_BUCKET"))
	region := getenvDefault("STORAGE_REGION", "us-east-1")
	accessKey := strings.TrimSpace(os.Getenv("STORAGE_ACCESS_KEY"))
	secretKey := strings.TrimSpace(os.Getenv("STORAGE_SECRET_KEY"))
	if endpoint == "" || bucket == "" || accessKey == "" || secretKey == "" {
		return "", fmt.Errorf("storage envs not set (STORAGE_ENDPOINT/BUCKET/ACCESS_KEY/SECRET_KEY)")
	}

	u, err := url.Parse(endpoint)
	if err != nil {
		return "", err
	}
	host := u.Host
	path := "/" + bucket + "/" + key

	amzDate := now.UTC().Format("20060102T150405Z")
	dateStamp := now.UTC().Format("20060102")
	scope := dateStamp + "/" + region + "/s3/aws4_request"

	q := url.Values{}
	q.Set("X-Amz-Algorithm", "AWS4-HMAC-SHA256")
	q.Set("X-Amz-Credential", accessKey+"/"+scope)
	q.Set("X-Amz-Date", amzDate)
	q.Set("X-Amz-Expires", fmt.Sprintf("%d", int(expiry.Seconds())))
	q.Set("X-Amz-SignedHeaders", "host")

	canonical := strings.Join([]string{
		method,
		escapePath(path),
		q.Encode(),
		"host:" + host + "\n",
		"host",
		"UNSIGNED-PAYLOAD",
	}, "\n")

	hashed := sha256.Sum256([]byte(canonical))
	stringToSign := strings.Join([]string{
		"AWS4-HMAC-SHA256",
		amzDate,
		scope,
		hex.EncodeToString(hashed[:]),
	}, "\n")

	kDate := hmacSHA256([]byte("AWS4"+secretKey), dateStamp)
	kRegion := hmacSHA256(kDate, region)
	kService := hmacSHA256(kRegion, "s3")
	kSigning := hmacSHA256(kService, "aws4_request")
	signature := hex.EncodeToString(hmacSHA256(kSigning, stringToSign))

	q.Set("X-Amz-Signature", signature)
	return u.Scheme + "://" + host + escapePath(path) + "?" + q.Encode(), nil
}

func escapePath(p string) string {
	parts := strings.Split(p, "/")
	for i, s := range parts {
		parts[i] = url.PathEscape(s)
	}
	return strings.Join(parts, "/")
}

func hmacSHA256(key []byte, data string) []byte {
	h := hmac.New(sha256.New, key)
	h.Write([]byte(data))
	return h.Sum(nil)
}
