package aws

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestObjectURL(t *testing.T) {
	tests := []struct {
		name     string
		endpoint string
		region   string
		want     string
	}{
		{"minio endpoint", "http://minio:9000/", "", "http://minio:9000/images/products/1/a.png"},
		{"aws region", "", "eu-west-1", "https://images.s3.eu-west-1.amazonaws.com/products/1/a.png"},
		{"bare key", "", "", "products/1/a.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ObjectURL(tt.endpoint, "images", tt.region, "products/1/a.png"))
		})
	}
}
