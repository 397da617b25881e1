package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventTopicTransfer(t *testing.T) {
	// Canonical ERC-721 Transfer topic.
	got := eventTopic("Transfer(address,address,uint256)")
	assert.Equal(t, "0xddf252ad1be2c89b69c2b068fc378daa952ba7f163c4a11628f55a4df523b3ef", got)
}

func TestEventTopicDiffersPerSignature(t *testing.T) {
	assert.NotEqual(t, eventTopic("ArtworkSold(uint256,address,uint256)"), eventTopic("ArtworkListed(uint256,uint256)"))
}

func TestNormalizeBlockParam(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"latest", "latest"},
		{"earliest", "earliest"},
		{"pending", "pending"},
		{"0x1a", "0x1a"},
		{"100", "0x64"},
		{"0", "0x0"},
		{"notanumber", "notanumber"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, normalizeBlockParam(tt.in), "input %q", tt.in)
	}
}

func TestDecodeTopicAddress(t *testing.T) {
	topic := "0x000000000000000000000000f39fd6e51aad88f6f4ce6ab8827279cfffb92266"
	assert.Contains(t, decodeTopic(topic), "0xf39fd6e51aad88f6f4ce6ab8827279cfffb92266")
}

func TestDecodeTopicNonAddressPassesThrough(t *testing.T) {
	topic := "0xddf252ad1be2c89b69c2b068fc378daa952ba7f163c4a11628f55a4df523b3ef"
	assert.Equal(t, topic, decodeTopic(topic))

	zero := "0x" + "0000000000000000000000000000000000000000000000000000000000000000"
	assert.Equal(t, zero, decodeTopic(zero))
}

func TestEventContractsCoverAllKnownEvents(t *testing.T) {
	for name, c := range eventContracts {
		assert.NotEmpty(t, c, "event %s has no contract", name)
	}
	assert.Len(t, eventContracts, 10)
}
