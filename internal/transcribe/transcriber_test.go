package transcribe

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeWhisper emits a fixed result into whatever --output_dir it is
// handed, named after the input file like the real CLI does.
const fakeWhisper = `#!/bin/sh
outdir=""
prev=""
for a in "$@"; do
  if [ "$prev" = "--output_dir" ]; then outdir="$a"; fi
  prev="$a"
done
cat > "$outdir/input.json" <<'EOF'
{"segments":[{"start":0.0,"end":5.0,"text":" Hello world"},{"start":5.0,"end":10.0,"text":" Second line"}]}
EOF
`

func writeScript(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fake-whisper")
	require.NoError(t, os.WriteFile(path, []byte(content), 0755))
	return path
}

func TestTranscribeParsesSegments(t *testing.T) {
	svc := NewService("medium", zap.NewNop())
	svc.binary = writeScript(t, fakeWhisper)

	segments, err := svc.Transcribe(context.Background(), "/tmp/input.m4a", nil)
	require.NoError(t, err)
	require.Len(t, segments, 2)

	assert.Equal(t, 0.0, segments[0].Start)
	assert.Equal(t, " Hello world", segments[0].Text, "segment text is passed through untouched")
	assert.Equal(t, 5.0, segments[1].Start)
}

func TestTranscribeModelFailureIsFatal(t *testing.T) {
	svc := NewService("medium", zap.NewNop())
	svc.binary = writeScript(t, "#!/bin/sh\necho 'model not found' >&2\nexit 1\n")

	_, err := svc.Transcribe(context.Background(), "/tmp/input.m4a", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "whisper transcribe")
	assert.Contains(t, err.Error(), "model not found")
}

func TestTranscribeMalformedOutputIsPropagated(t *testing.T) {
	script := `#!/bin/sh
outdir=""
prev=""
for a in "$@"; do
  if [ "$prev" = "--output_dir" ]; then outdir="$a"; fi
  prev="$a"
done
echo '{not json' > "$outdir/input.json"
`
	svc := NewService("medium", zap.NewNop())
	svc.binary = writeScript(t, script)

	_, err := svc.Transcribe(context.Background(), "/tmp/input.m4a", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse whisper output")
}

func TestNewServiceDefaultsModel(t *testing.T) {
	svc := NewService("", zap.NewNop())
	assert.Equal(t, DefaultModel, svc.model)
}
