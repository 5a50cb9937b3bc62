package blocktext_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/tavernkeep/campaign-api/internal/codec/blocktext"
)

type BlockTextTestSuite struct {
	suite.Suite
}

func TestBlockTextSuite(t *testing.T) {
	suite.Run(t, new(BlockTextTestSuite))
}

func (s *BlockTextTestSuite) TestEncodeBlocks() {
	blocks := []blocktext.Block{
		{Name: "Multiattack", Description: "The dragon makes three attacks."},
		{Name: "Bite", Description: "Melee Weapon Attack: +11 to hit."},
	}

	expected := "Multiattack\nThe dragon makes three attacks.\n\nBite\nMelee Weapon Attack: +11 to hit."
	s.Assert().Equal(expected, blocktext.EncodeBlocks(blocks))
}

func (s *BlockTextTestSuite) TestEncodeBlocksNameOnly() {
	s.Assert().Equal("Amphibious", blocktext.EncodeBlocks([]blocktext.Block{{Name: "Amphibious"}}))
}

func (s *BlockTextTestSuite) TestEncodeBlocksEmpty() {
	s.Assert().Equal("", blocktext.EncodeBlocks(nil))
	s.Assert().Equal("", blocktext.EncodeBlocks([]blocktext.Block{}))
	s.Assert().Equal("", blocktext.EncodeBlocks([]blocktext.Block{{Name: "  ", Description: ""}}))
}

func (s *BlockTextTestSuite) TestDecodeBlocks() {
	text := "Multiattack:\nThe dragon makes three attacks.\n\nA lone description paragraph."

	blocks := blocktext.DecodeBlocks(text)
	s.Require().Len(blocks, 2)
	s.Assert().Equal("Multiattack", blocks[0].Name)
	s.Assert().Equal("The dragon makes three attacks.", blocks[0].Description)
	s.Assert().Equal("", blocks[1].Name)
	s.Assert().Equal("A lone description paragraph.", blocks[1].Description)
}

func (s *BlockTextTestSuite) TestDecodeBlocksStripsTrailingPunctuation() {
	blocks := blocktext.DecodeBlocks("Frightful Presence -\nEach creature must succeed on a save.")
	s.Require().Len(blocks, 1)
	s.Assert().Equal("Frightful Presence", blocks[0].Name)
}

func (s *BlockTextTestSuite) TestDecodeBlocksDropsEmptyParagraphs() {
	blocks := blocktext.DecodeBlocks("\n\n  \n\nBite\nA melee attack.\n\n\n")
	s.Require().Len(blocks, 1)
	s.Assert().Equal("Bite", blocks[0].Name)
}

func (s *BlockTextTestSuite) TestDecodeBlocksEmptyInput() {
	s.Assert().Empty(blocktext.DecodeBlocks(""))
	s.Assert().Empty(blocktext.DecodeBlocks("   \n  \n"))
}

func (s *BlockTextTestSuite) TestRoundTrip() {
	blocks := []blocktext.Block{
		{Name: "Multiattack", Description: "The dragon makes three attacks."},
		{Description: "An unnamed note."},
		{Name: "Legendary Resistance", Description: "If the dragon fails a saving throw, it can choose to succeed instead."},
	}

	s.Assert().Equal(blocks, blocktext.DecodeBlocks(blocktext.EncodeBlocks(blocks)))
}

func (s *BlockTextTestSuite) TestRoundTripLossyOnEmbeddedBlankLine() {
	// Documented limitation: a blank line inside a description splits the
	// block in two on decode.
	blocks := []blocktext.Block{{Name: "Lair", Description: "First part.\n\nSecond part."}}
	decoded := blocktext.DecodeBlocks(blocktext.EncodeBlocks(blocks))
	s.Assert().Len(decoded, 2)
}

func (s *BlockTextTestSuite) TestDecodeKV() {
	values := blocktext.DecodeKV("walk: 9\nswim: 12")
	s.Assert().Equal(map[string]any{"walk": int64(9), "swim": int64(12)}, values)
}

func (s *BlockTextTestSuite) TestDecodeKVTypes() {
	values := blocktext.DecodeKV("darkvision: 18,5\nblindsight: true\nnote: keen smell\nburrow: 4.5")
	s.Assert().Equal(18.5, values["darkvision"])
	s.Assert().Equal(true, values["blindsight"])
	s.Assert().Equal("keen smell", values["note"])
	s.Assert().Equal(4.5, values["burrow"])
}

func (s *BlockTextTestSuite) TestDecodeKVDropsEmptyValues() {
	values := blocktext.DecodeKV("passive_perception: 12\nempty:\nno-separator line\n")
	s.Assert().Equal(map[string]any{"passive_perception": int64(12)}, values)
}

func (s *BlockTextTestSuite) TestEncodeKVSortedAndTyped() {
	text := blocktext.EncodeKV(map[string]any{
		"walk":       int64(9),
		"swim":       int64(12),
		"blindsight": true,
		"burrow":     4.5,
	})
	s.Assert().Equal("blindsight: true\nburrow: 4.5\nswim: 12\nwalk: 9", text)
}

func (s *BlockTextTestSuite) TestKVRoundTrip() {
	values := map[string]any{"walk": int64(9), "fly": int64(24), "hover": true}
	s.Assert().Equal(values, blocktext.DecodeKV(blocktext.EncodeKV(values)))
}
