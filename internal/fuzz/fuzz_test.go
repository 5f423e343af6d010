package fuzztests

import (
	"testing"
	"time"

	"ohdl/internal/ast"
	"ohdl/internal/diag"
	"ohdl/internal/driver"
	"ohdl/internal/lexer"
	"ohdl/internal/parser"
	"ohdl/internal/source"
	"ohdl/internal/testkit"
	"ohdl/internal/token"
)

// pipelineTimeout bounds one input; exceeding it means a recovery loop.
const pipelineTimeout = 5 * time.Second

func checkSpans(t *testing.T, bag *diag.Bag, size int) {
	t.Helper()
	for _, d := range bag.Items() {
		if d.Primary.Start > d.Primary.End || int(d.Primary.End) > size {
			t.Fatalf("diagnostic %s has span %v outside input of %d bytes", d.Code.ID(), d.Primary, size)
		}
	}
}

func FuzzLexer(f *testing.F) {
	addSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clamp(input)
		fs := source.NewFileSet()
		file := fs.Get(fs.AddVirtual("fuzz.ohd", input))
		bag := diag.NewBag(64)
		lx := lexer.New(file, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
		for i := 0; ; i++ {
			if lx.Next().Kind == token.EOF {
				break
			}
			if i > len(input)+1 {
				t.Fatalf("lexer produced more tokens than input bytes")
			}
		}
		checkSpans(t, bag, len(file.Content))
	})
}

func FuzzParser(f *testing.F) {
	addSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clamp(input)
		fs := source.NewFileSet()
		id := fs.AddVirtual("fuzz.ohd", input)
		bag := diag.NewBag(128)
		reporter := diag.BagReporter{Bag: bag}
		lx := lexer.New(fs.Get(id), lexer.Options{Reporter: reporter})
		builder := ast.NewBuilder(nil)
		res := parser.ParseFile(lx, builder, parser.Options{Reporter: reporter})
		if err := testkit.CheckSpanInvariants(builder, res.File, fs.Get(id)); err != nil {
			t.Fatalf("%q: %v", input, err)
		}
		checkSpans(t, bag, len(fs.Get(id).Content))
	})
}

func FuzzPipeline(f *testing.F) {
	addSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clamp(input)
		done := make(chan *driver.Result, 1)
		go func() {
			_, res := driver.CompileSource("fuzz.ohd", input, driver.Options{MaxDiagnostics: 128})
			done <- res
		}()
		select {
		case res := <-done:
			checkSpans(t, res.Bag, len(input))
		case <-time.After(pipelineTimeout):
			t.Fatalf("pipeline did not finish within %v on %q", pipelineTimeout, input)
		}
	})
}
