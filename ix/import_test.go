package ix

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/plaszyme/enzyme"
	"github.com/teranos/plaszyme/errors"
	plztest "github.com/teranos/plaszyme/internal/testing"
)

const fastaCorpus = `>PLZ001 IsPETase [Ideonella sakaiensis] tags=PET,MHET pdb=5XJH ec=3.1.1.101 taxonomy=Pseudomonadota
MNFPRASRLMQAAVLGGLMAVSAAATAQTNPYARGPNPTAASLEASAGPFTVRSFTVSRP
SGYGAGTVYYPTNAGGTVGAIAIVPGYTARQSSIKWWGPRLASHGFVVITIDTNSTLDQP
>PLZ002 Too short
MKT
>PLZ003 Leaf compost cutinase LCC [uncultured bacterium] plastic=PET
sntpyargpnptaasleasagpftvrsftvsrpsgygagtvyyptnaggtvgaiaivpgy
>PLZ004 Bad letters
MKTAYIAKQR1234
`

func TestParseHeader(t *testing.T) {
	r := ParseHeader("PLZ001 IsPETase variant 2 [Ideonella sakaiensis 201-F6] tags=PET,MHET pdb=5XJH ec=3.1.1.101 taxonomy=Bacteria protein_id=A0A0K8P6T7")
	assert.Equal(t, "PLZ001", r.ID)
	assert.Equal(t, "IsPETase variant 2", r.Name)
	assert.Equal(t, "Ideonella sakaiensis 201-F6", r.Organism)
	assert.Equal(t, []string{"PET", "MHET"}, r.Tags)
	assert.Equal(t, "5XJH", r.PDBIDs)
	assert.True(t, r.HasStructure)
	assert.Equal(t, "3.1.1.101", r.ECNumber)
	assert.Equal(t, "Bacteria", r.Taxonomy)
	assert.Equal(t, "A0A0K8P6T7", r.ProteinID)
}

func TestParseHeaderMinimal(t *testing.T) {
	r := ParseHeader(">sp|P12345|X")
	assert.Equal(t, "sp|P12345|X", r.ID)
	assert.Empty(t, r.Name)
	assert.Empty(t, r.Tags)
	assert.False(t, r.HasStructure)
}

func TestImportFASTA(t *testing.T) {
	store := enzyme.NewStore(plztest.CreateTestDB(t), nil)
	ctx := context.Background()

	summary, err := ImportFASTA(ctx, strings.NewReader(fastaCorpus), store, Options{BatchSize: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Imported)
	assert.Equal(t, 2, summary.Skipped)
	require.Len(t, summary.Skips, 2)
	assert.Equal(t, "PLZ002", summary.Skips[0].ID)
	assert.Contains(t, summary.Skips[0].Reason, "too short")
	assert.Equal(t, "PLZ004", summary.Skips[1].ID)

	r, err := store.Get(ctx, "PLZ003")
	require.NoError(t, err)
	assert.Equal(t, "Leaf compost cutinase LCC", r.Name)
	assert.Equal(t, "uncultured bacterium", r.Organism)
	assert.Equal(t, []string{"PET"}, r.Tags)
	assert.True(t, strings.HasPrefix(r.Sequence, "SNTPYARG"), "stored uppercase")

	got, err := store.Candidates(ctx, enzyme.Filter{Tag: "pet"}, 10)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestImportFASTADryRun(t *testing.T) {
	store := enzyme.NewStore(plztest.CreateTestDB(t), nil)

	summary, err := ImportFASTA(context.Background(), strings.NewReader(fastaCorpus), store, Options{DryRun: true})
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Imported)

	n, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestImportFASTAMalformed(t *testing.T) {
	_, err := ImportFASTA(context.Background(), strings.NewReader("MKTAYIAKQR\n"), enzyme.NewMemorySource(), Options{})
	assert.Error(t, err)
}

func TestImportCSV(t *testing.T) {
	input := "\ufeffPLZ_ID,Enzyme_Name,Host_Organism,EC_Number,PDB_IDs,Sequence,Substrates,Extra\n" +
		"PLZ010,Cutinase,Thermobifida fusca,3.1.1.74,,AANPYERGPNPTDALLEARSGPFSVSEERASRFGADGFGG,PET;PBAT,x\n" +
		",NoID,Someone,,,MKTAYIAKQRQISFVK,PET,x\n" +
		"PLZ011,Short,Someone,,,MKT,,x\n" +
		"PLZ012,\"Lipase, secreted\",Bacillus subtilis,3.1.1.3,1ISP,MKFVKRRIIALVTILMLSVTSLFALQPSAKAAEHNPVVMVHGIGG,\"PCL, PBS\",x\n"

	mem := enzyme.NewMemorySource()
	summary, err := ImportCSV(context.Background(), strings.NewReader(input), mem, Options{})
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Imported)
	assert.Equal(t, 2, summary.Skipped)
	assert.Equal(t, 3, summary.Skips[0].Line)
	assert.Equal(t, "missing id", summary.Skips[0].Reason)

	r, err := mem.Get(context.Background(), "PLZ012")
	require.NoError(t, err)
	assert.Equal(t, "Lipase, secreted", r.Name)
	assert.Equal(t, []string{"PCL", "PBS"}, r.Tags)
	assert.True(t, r.HasStructure)

	r, err = mem.Get(context.Background(), "PLZ010")
	require.NoError(t, err)
	assert.Equal(t, []string{"PET", "PBAT"}, r.Tags)
	assert.False(t, r.HasStructure)
}

func TestImportCSVHeaderErrors(t *testing.T) {
	_, err := ImportCSV(context.Background(), strings.NewReader(""), enzyme.NewMemorySource(), Options{})
	assert.True(t, errors.IsInvalidRequestError(err))

	_, err = ImportCSV(context.Background(), strings.NewReader("id,name\nA,B\n"), enzyme.NewMemorySource(), Options{})
	require.Error(t, err)
	assert.True(t, errors.IsInvalidRequestError(err))
	assert.Contains(t, err.Error(), `"sequence"`)
}

type failingSink struct{}

func (failingSink) PutBatch(context.Context, []enzyme.Record) error {
	return errors.New("disk full")
}

func TestImportSinkFailure(t *testing.T) {
	_, err := ImportFASTA(context.Background(), strings.NewReader(fastaCorpus), failingSink{}, Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestJSONEmitter(t *testing.T) {
	var buf bytes.Buffer
	_, err := ImportFASTA(context.Background(), strings.NewReader(fastaCorpus), enzyme.NewMemorySource(),
		Options{Emitter: NewJSONEmitter(&buf)})
	require.NoError(t, err)

	var types []string
	dec := json.NewDecoder(&buf)
	for dec.More() {
		var ev ProgressEvent
		require.NoError(t, dec.Decode(&ev))
		types = append(types, ev.Type)
	}
	require.NotEmpty(t, types)
	assert.Equal(t, "stage", types[0])
	assert.Equal(t, "complete", types[len(types)-1])
	assert.Contains(t, types, "progress")
}
