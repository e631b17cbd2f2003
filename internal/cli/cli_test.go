package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/wikilist/pkg/aggregate"
	"github.com/matzehuels/wikilist/pkg/cache"
	"github.com/matzehuels/wikilist/pkg/catalog"
	wlerrors "github.com/matzehuels/wikilist/pkg/errors"
	wlio "github.com/matzehuels/wikilist/pkg/io"
	"github.com/matzehuels/wikilist/pkg/pipeline"
	"github.com/matzehuels/wikilist/pkg/tree"
)

type stubWiki struct{}

func (stubWiki) CategoryMembers(context.Context, string) ([]string, []string, error) {
	return []string{"Sunspire", "Valoria", "Ashfall"}, nil, nil
}

func (stubWiki) PageCategories(_ context.Context, title string) ([]string, error) {
	return map[string][]string{
		"Sunspire": {"Countries", "Major Countries"},
		"Valoria":  {"Countries", "Major Countries"},
		"Ashfall":  {"Countries", "Fallen Elysian Countries"},
	}[title], nil
}

// newTestCLI returns a CLI whose cache and saves live in temp dirs and
// whose wiki is stubbed. Status output is captured in the returned buffer.
func newTestCLI(t *testing.T) (*CLI, *bytes.Buffer) {
	t.Helper()
	tmp := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", filepath.Join(tmp, "cache"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(tmp, "data"))
	for _, k := range []string{"CACHE_DIR", "SAVE_DIR", "REDIS_URL", "MONGO_URI", "LISTS_FILE", "HEAD_FILE"} {
		t.Setenv("WIKILIST_"+k, "")
		os.Unsetenv("WIKILIST_" + k)
	}

	var status bytes.Buffer
	prev := uiOut
	uiOut = &status
	t.Cleanup(func() { uiOut = prev })

	c := New(&status, log.WarnLevel)
	c.envFile = filepath.Join(tmp, "missing.env")
	c.newWiki = func(cache.Cache, bool) aggregate.Wiki { return stubWiki{} }
	return c, &status
}

// run executes the root command with args and returns stdout.
func run(t *testing.T, c *CLI, args ...string) (string, error) {
	t.Helper()
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append(args, "--env-file", c.envFile))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCommandSubcommands(t *testing.T) {
	c, _ := newTestCLI(t)
	root := c.RootCommand()

	want := []string{"lists", "build", "manual", "saves", "tree", "serve", "cache", "completion"}
	for _, name := range want {
		found := false
		for _, cmd := range root.Commands() {
			if cmd.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("missing subcommand %q", name)
		}
	}
}

func TestListsCommand(t *testing.T) {
	c, _ := newTestCLI(t)
	out, err := run(t, c, "lists")
	if err != nil {
		t.Fatalf("lists: %v", err)
	}
	for _, name := range []string{"characters", "countries", "oaths"} {
		if !strings.Contains(out, name) {
			t.Errorf("lists output missing %q:\n%s", name, out)
		}
	}
}

func TestBuildCommand(t *testing.T) {
	c, status := newTestCLI(t)
	dir := t.TempDir()
	output := filepath.Join(dir, "countries.wiki")
	htmlPath := filepath.Join(dir, "countries.html")
	jsonPath := filepath.Join(dir, "countries.json")

	if _, err := run(t, c, "build", "countries", "-o", output, "--html", htmlPath, "--json", jsonPath); err != nil {
		t.Fatalf("build: %v", err)
	}

	text, err := os.ReadFile(output)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(text), "[[Sunspire]]{{ts}}[[Valoria]]") {
		t.Errorf("wikitext missing grouped members:\n%s", text)
	}
	page, err := os.ReadFile(htmlPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(page), "<table") {
		t.Errorf("html preview has no table:\n%s", page)
	}
	exported, err := wlio.ImportJSON(jsonPath)
	if err != nil {
		t.Fatalf("ImportJSON: %v", err)
	}
	if got := len(exported.Members()); got != 3 {
		t.Errorf("exported members = %d, want 3", got)
	}
	if !strings.Contains(status.String(), "3 members") {
		t.Errorf("status missing stats:\n%s", status.String())
	}
}

func TestBuildCommandStdout(t *testing.T) {
	c, _ := newTestCLI(t)
	out, err := run(t, c, "build", "countries", "--no-cache")
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if !strings.HasPrefix(out, "{|") {
		t.Errorf("stdout should hold only the table, got:\n%s", out)
	}
}

func TestBuildCommandUnknownList(t *testing.T) {
	c, _ := newTestCLI(t)
	_, err := run(t, c, "build", "nope")
	if !wlerrors.Is(err, wlerrors.ErrCodeListNotFound) {
		t.Errorf("got %v, want LIST_NOT_FOUND", err)
	}
}

func TestBuildCommandSave(t *testing.T) {
	c, _ := newTestCLI(t)
	if _, err := run(t, c, "build", "countries", "--save", "countries", "-o", filepath.Join(t.TempDir(), "out.wiki")); err != nil {
		t.Fatalf("build: %v", err)
	}
	out, err := run(t, c, "manual", "countries")
	if err != nil {
		t.Fatalf("manual: %v", err)
	}
	if !strings.Contains(out, "Sunspire") {
		t.Errorf("manual output missing saved member:\n%s", out)
	}
}

func writeTree(t *testing.T, path string) {
	t.Helper()
	tr := tree.New("List of Combat Arts")
	arts := tr.AddRoot(&tree.Node{Key: "Sword arts", Kind: tree.KindCategory})
	arts.AddChild(&tree.Node{Key: "Middle Guard", Kind: tree.KindItem, Description: "A stance."})
	if err := wlio.ExportJSON(tr, path); err != nil {
		t.Fatal(err)
	}
}

func TestManualCommandFile(t *testing.T) {
	c, _ := newTestCLI(t)
	path := filepath.Join(t.TempDir(), "arts.json")
	writeTree(t, path)

	out, err := run(t, c, "manual", path)
	if err != nil {
		t.Fatalf("manual: %v", err)
	}
	for _, want := range []string{"List of Combat Arts", "Middle Guard", "A stance."} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestManualCommandMissingSave(t *testing.T) {
	c, _ := newTestCLI(t)
	_, err := run(t, c, "manual", "no-such-save")
	if !wlerrors.Is(err, wlerrors.ErrCodeSaveNotFound) {
		t.Errorf("got %v, want SAVE_NOT_FOUND", err)
	}
}

func TestSavesCommands(t *testing.T) {
	c, status := newTestCLI(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "arts.json")
	writeTree(t, path)

	if _, err := run(t, c, "saves", "import", path, "--id", "arts"); err != nil {
		t.Fatalf("import: %v", err)
	}
	// A second import backs up the first.
	if _, err := run(t, c, "saves", "import", path, "--id", "arts"); err != nil {
		t.Fatalf("import: %v", err)
	}

	out, err := run(t, c, "saves", "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out, "arts") || !strings.Contains(out, "List of Combat Arts") {
		t.Errorf("saves list:\n%s", out)
	}

	out, err = run(t, c, "saves", "show", "arts")
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	if !strings.Contains(out, `"__title"`) {
		t.Errorf("saves show is not a saved tree:\n%s", out)
	}

	exported := filepath.Join(dir, "exported.json.gz")
	if _, err := run(t, c, "saves", "export", "arts", "-o", exported); err != nil {
		t.Fatalf("export: %v", err)
	}
	if _, err := wlio.ImportJSON(exported); err != nil {
		t.Errorf("exported file unreadable: %v", err)
	}

	out, err = run(t, c, "saves", "backups", "arts")
	if err != nil {
		t.Fatalf("backups: %v", err)
	}
	if !strings.Contains(out, "backup_") {
		t.Errorf("saves backups:\n%s", out)
	}
	if _, err := run(t, c, "saves", "restore", "arts", "1"); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if !strings.Contains(status.String(), "Restored List of Combat Arts") {
		t.Errorf("status missing restore:\n%s", status.String())
	}

	if _, err := run(t, c, "saves", "delete", "arts"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := run(t, c, "saves", "show", "arts"); !wlerrors.Is(err, wlerrors.ErrCodeSaveNotFound) {
		t.Errorf("show after delete: got %v, want SAVE_NOT_FOUND", err)
	}
}

func TestSavesRestoreOutOfRange(t *testing.T) {
	c, _ := newTestCLI(t)
	path := filepath.Join(t.TempDir(), "arts.json")
	writeTree(t, path)
	if _, err := run(t, c, "saves", "import", path, "--id", "arts"); err != nil {
		t.Fatal(err)
	}
	if _, err := run(t, c, "saves", "restore", "arts", "3"); !wlerrors.Is(err, wlerrors.ErrCodeInvalidInput) {
		t.Errorf("got %v, want INVALID_INPUT", err)
	}
}

func TestTreeCommandDOT(t *testing.T) {
	c, _ := newTestCLI(t)
	out, err := run(t, c, "tree", "countries", "--members")
	if err != nil {
		t.Fatalf("tree: %v", err)
	}
	if !strings.HasPrefix(out, "digraph") || !strings.Contains(out, "Sunspire") {
		t.Errorf("tree output is not a DOT graph:\n%s", out)
	}
}

func TestTreeCommandBadFormat(t *testing.T) {
	c, _ := newTestCLI(t)
	if _, err := run(t, c, "tree", "countries", "--format", "png"); !wlerrors.Is(err, wlerrors.ErrCodeInvalidInput) {
		t.Errorf("got %v, want INVALID_INPUT", err)
	}
}

func TestServeRunnerSeparatesListCache(t *testing.T) {
	c, _ := newTestCLI(t)
	ctx := context.Background()
	list, err := catalog.Builtin().Get("countries")
	if err != nil {
		t.Fatal(err)
	}

	served, err := c.newServeRunner(ctx, false)
	if err != nil {
		t.Fatal(err)
	}
	defer served.Close()
	if key := served.Keyer.ListKey(list.Name, cache.ListKeyOpts{}); !strings.HasPrefix(key, serveKeyPrefix+"list:") {
		t.Errorf("serve list key = %q", key)
	}

	fetch := func(r *pipeline.Runner) bool {
		t.Helper()
		res, err := r.BuildList(ctx, stubWiki{}, list, c.buildOptions())
		if err != nil {
			t.Fatalf("BuildList: %v", err)
		}
		return res.CacheInfo.FetchHit
	}

	if fetch(served) {
		t.Error("first server build hit the cache")
	}
	if !fetch(served) {
		t.Error("second server build missed the cache")
	}

	local, err := c.newRunner(ctx, false)
	if err != nil {
		t.Fatal(err)
	}
	defer local.Close()
	if fetch(local) {
		t.Error("CLI build reused the server's cached list")
	}
}

func TestCompletionCommand(t *testing.T) {
	c, _ := newTestCLI(t)
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			out, err := run(t, c, "completion", shell)
			if err != nil {
				t.Fatal(err)
			}
			if !strings.Contains(out, "wikilist") {
				t.Errorf("%s script does not mention wikilist", shell)
			}
		})
	}
	if _, err := run(t, c, "completion", "tcsh"); err == nil {
		t.Error("expected error for unsupported shell")
	}
}

func TestCompleteListNames(t *testing.T) {
	c, _ := newTestCLI(t)
	names, directive := c.completeListNames(nil, nil, "")
	found := false
	for _, n := range names {
		if strings.HasPrefix(n, "countries\t") {
			found = true
		}
	}
	if !found {
		t.Errorf("completions missing countries: %v", names)
	}
	if directive != cobra.ShellCompDirectiveNoFileComp {
		t.Errorf("directive = %v", directive)
	}
	if more, _ := c.completeListNames(nil, []string{"countries"}, ""); len(more) != 0 {
		t.Errorf("second argument completions = %v", more)
	}
}

func TestDisplayAddr(t *testing.T) {
	tests := map[string]string{
		":8080":          "localhost:8080",
		"127.0.0.1:9000": "127.0.0.1:9000",
		"":               "",
	}
	for in, want := range tests {
		if got := displayAddr(in); got != want {
			t.Errorf("displayAddr(%q) = %q, want %q", in, got, want)
		}
	}
}
