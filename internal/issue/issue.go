// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

const (
	UvNotFoundId Id = iota + 1
	InvalidExtensionId
	MetadataBlockInvalidId
	MetadataSyntaxId
	ExternalToolFailedId
	NotebookParseFailedId
	ConfigLoadFailedId
	FileExistsId
	NoAvailableNameId
)

type (
	Id int

	MarkdownMsg string

	HttpLink string

	Issue struct {
		id       Id          // ID used to lookup the issue
		mdMsg    MarkdownMsg // Markdown text that will be rendered
		docLinks []HttpLink  // reference documentation for the failure
	}
)

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

// Markdown returns the message with its "See also" links appended.
func (i *Issue) Markdown() string {
	var sb strings.Builder
	sb.WriteString(string(i.mdMsg))
	if len(i.docLinks) > 0 {
		sb.WriteString("\n\n## See also\n")
		for _, link := range i.docLinks {
			sb.WriteString("- <" + string(link) + ">\n")
		}
	}
	return sb.String()
}

// Render renders the issue with the given glamour style ("dark", "light",
// "notty", ...).
func (i *Issue) Render(stylePath string) (string, error) {
	return render(i.Markdown(), stylePath)
}

var (
	render = glamour.Render

	uvNotFoundIssue = &Issue{
		id: UvNotFoundId,
		mdMsg: `
# uv is not installed!

juv delegates dependency resolution and script scaffolding to uv, and could not
find it on your PATH.

## Things you can try:
- Install uv:
~~~
$ curl -LsSf https://astral.sh/uv/install.sh | sh
~~~
- Or point juv at an existing binary in your config file:
~~~cue
uv: command: "/opt/tools/uv"
~~~
- Or through the environment:
~~~
$ JUV_UV_COMMAND=/opt/tools/uv juv add demo.ipynb rich
~~~`,
		docLinks: []HttpLink{"https://docs.astral.sh/uv/getting-started/installation/"},
	}

	invalidExtensionIssue = &Issue{
		id: InvalidExtensionId,
		mdMsg: `
# Not a notebook path!

Notebook files must end in ` + "`.ipynb`" + `. juv checks the extension before
touching the file.

## Things you can try:
- Rename the target:
~~~
$ juv init analysis.ipynb
~~~
- To turn a script into a notebook, use convert:
~~~
$ juv convert analysis.py
~~~`,
	}

	metadataBlockInvalidIssue = &Issue{
		id: MetadataBlockInvalidId,
		mdMsg: `
# Inline metadata block is malformed!

A script (or a notebook cell) holds a ` + "`# /// script`" + ` block that
cannot be read.

## Common issues:
- The closing ` + "`# ///`" + ` line is missing
- A line inside the block does not start with ` + "`#`" + `
- Two ` + "`# /// script`" + ` blocks appear in the same file

## A valid block looks like:
~~~python
# /// script
# requires-python = ">=3.12"
# dependencies = [
#     "numpy",
# ]
# ///
~~~`,
		docLinks: []HttpLink{"https://peps.python.org/pep-0723/"},
	}

	metadataSyntaxIssue = &Issue{
		id: MetadataSyntaxId,
		mdMsg: `
# Inline metadata is not valid TOML!

The block was found, but its content could not be decoded.

## Things you can try:
- Check the line and column in the error above
- Make sure ` + "`dependencies`" + ` is an array of strings and
  ` + "`requires-python`" + ` is a string`,
		docLinks: []HttpLink{"https://peps.python.org/pep-0723/", "https://toml.io/en/v1.0.0"},
	}

	externalToolFailedIssue = &Issue{
		id: ExternalToolFailedId,
		mdMsg: `
# uv reported an error!

The notebook was left unchanged.

## Things you can try:
- Read uv's output above; unknown package names and version conflicts are
  the usual causes
- Re-run with ` + "`--verbose`" + ` to see the exact uv command line
- Use ` + "`--dry-run`" + ` to print the command without running it`,
	}

	notebookParseFailedIssue = &Issue{
		id: NotebookParseFailedId,
		mdMsg: `
# Failed to read the notebook!

The file is not a valid nbformat 4 document.

## Things you can try:
- Open it in Jupyter and save it again
- Check that the file is not truncated or hand-edited into invalid JSON`,
		docLinks: []HttpLink{"https://nbformat.readthedocs.io/en/latest/format_description.html"},
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

## Things you can try:
- Show where juv looks for its config file:
~~~
$ juv config path
~~~
- Write a fresh default config:
~~~
$ juv config init --force
~~~
- Check the CUE syntax of your config file`,
	}

	fileExistsIssue = &Issue{
		id: FileExistsId,
		mdMsg: `
# The target file already exists!

juv never overwrites a file unless asked to.

## Things you can try:
- Pick another name, or pass ` + "`--force`" + ` to replace it`,
	}

	noAvailableNameIssue = &Issue{
		id: NoAvailableNameId,
		mdMsg: `
# No free Untitled notebook name!

` + "`Untitled.ipynb`" + ` through ` + "`Untitled99.ipynb`" + ` all exist in this
directory.

## Things you can try:
- Give the notebook a name:
~~~
$ juv init experiment.ipynb
~~~`,
	}

	issues = map[Id]*Issue{
		uvNotFoundIssue.Id():           uvNotFoundIssue,
		invalidExtensionIssue.Id():     invalidExtensionIssue,
		metadataBlockInvalidIssue.Id(): metadataBlockInvalidIssue,
		metadataSyntaxIssue.Id():       metadataSyntaxIssue,
		externalToolFailedIssue.Id():   externalToolFailedIssue,
		notebookParseFailedIssue.Id():  notebookParseFailedIssue,
		configLoadFailedIssue.Id():     configLoadFailedIssue,
		fileExistsIssue.Id():           fileExistsIssue,
		noAvailableNameIssue.Id():      noAvailableNameIssue,
	}
)

// Values returns every catalog entry ordered by id.
func Values() []*Issue {
	values := make([]*Issue, 0, len(issues))
	for _, i := range issues {
		values = append(values, i)
	}
	slices.SortFunc(values, func(a, b *Issue) int { return int(a.id) - int(b.id) })
	return values
}

func Get(id Id) *Issue {
	return issues[id]
}
