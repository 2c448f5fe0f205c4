// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
)

type Id int

const (
	ProjectNotFoundId Id = iota + 1
	ProjectConfigInvalidId
	SupportArtifactMissingId
	DownstreamBuildFailedId
	ContainerEngineNotFoundId
	FileExistsId
	SchemaInvalidId
	ConfigLoadFailedId
	MalformedRequestId
)

type MarkdownMsg string

type HttpLink string

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

// Render renders the issue for the terminal. stylePath is a glamour style name
// ("dark", "light", "notty") or a path to a JSON style file.
func (i *Issue) Render(stylePath string) (string, error) {
	md := string(i.mdMsg)
	if len(i.docLinks) > 0 {
		md += "\n\n## See also\n"
		for _, link := range i.docLinks {
			md += "- <" + string(link) + ">\n"
		}
	}
	return render(md, stylePath)
}

var (
	render = glamour.Render

	projectNotFoundIssue = &Issue{
		id: ProjectNotFoundId,
		mdMsg: `
# No resource provider project found!

The current directory does not contain a ` + "`.rpdk-config`" + ` file.

## Things you can try:
- Create a new project:
~~~
$ rpdk-python init --type-name Org::Service::Resource
~~~
- Or point at an existing project with ` + "`--project-dir`" + `.`,
		docLinks: []HttpLink{
			"https://docs.aws.amazon.com/cloudformation-cli/latest/userguide/resource-type-walkthrough.html",
		},
	}

	projectConfigInvalidIssue = &Issue{
		id: ProjectConfigInvalidId,
		mdMsg: `
# The project settings file is invalid!

` + "`.rpdk-config`" + ` could not be parsed or failed schema validation.

## Things you can try:
- Check the JSON syntax of ` + "`.rpdk-config`" + `
- Make sure ` + "`settings.use_docker`" + ` is a boolean
- Re-create the settings with ` + "`rpdk-python settings --use-docker`" + ` or ` + "`--no-docker`",
	}

	supportArtifactMissingIssue = &Issue{
		id: SupportArtifactMissingId,
		mdMsg: `
# The packaged support library is missing!

Dependency builds install the support library from a source distribution that must sit
in the project root, next to ` + "`requirements.txt`" + `.

## Things you can try:
- Build the support library and copy the archive into the project root:
~~~
$ python setup.py sdist
$ cp dist/aws-cloudformation-rpdk-python-lib-*.tar.gz /path/to/project
~~~
- Check ` + "`support_lib.version`" + ` in your configuration matches the archive name`,
		docLinks: []HttpLink{
			"https://github.com/aws-cloudformation/cloudformation-cli-python-plugin",
		},
	}

	downstreamBuildFailedIssue = &Issue{
		id: DownstreamBuildFailedId,
		mdMsg: `
# The dependency build failed!

The package manager or the container engine reported an error while installing
dependencies. Packaging is safe to retry: the build directory is cleaned every time.

## Things you can try:
- Re-run with ` + "`--verbose`" + ` to see the full build output
- Check ` + "`requirements.txt`" + ` for typos or unavailable versions
- For containerized builds, make sure the engine is running and can pull the build image
- For local builds, make sure ` + "`pip`" + ` is on your PATH`,
		docLinks: []HttpLink{
			"https://pip.pypa.io/en/stable/reference/requirements-file-format/",
		},
	}

	containerEngineNotFoundIssue = &Issue{
		id: ContainerEngineNotFoundId,
		mdMsg: `
# Container engine not available!

Containerized builds need Docker or Podman.

## Things you can try:
- Start the Docker daemon, or install Podman
- Switch the engine in your configuration (` + "`container_engine: \"podman\"`" + `)
- Build with the local toolchain instead:
~~~
$ rpdk-python settings --no-docker
~~~`,
		docLinks: []HttpLink{
			"https://docs.docker.com/engine/install/",
			"https://podman.io/docs/installation",
		},
	}

	fileExistsIssue = &Issue{
		id: FileExistsId,
		mdMsg: `
# Refusing to overwrite a file!

Project initialization never replaces files that were edited by hand.

## Things you can try:
- Move or delete the file and run ` + "`rpdk-python init`" + ` again
- Keep your version; the other scaffold files were written anyway up to this point`,
	}

	schemaInvalidIssue = &Issue{
		id: SchemaInvalidId,
		mdMsg: `
# The resource schema is invalid!

Models are generated from the resource schema, which must be a valid JSON Schema
document.

## Things you can try:
- Validate the JSON syntax of the schema file
- Check every ` + "`$ref`" + ` points at an existing definition`,
		docLinks: []HttpLink{
			"https://docs.aws.amazon.com/cloudformation-cli/latest/userguide/resource-type-schema.html",
		},
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

## Things you can try:
- Check the CUE syntax of your configuration file
- Show the effective configuration:
~~~
$ rpdk-python config show
~~~`,
		docLinks: []HttpLink{
			"https://cuelang.org/docs/",
		},
	}

	malformedRequestIssue = &Issue{
		id: MalformedRequestId,
		mdMsg: `
# The invocation event is malformed!

A required field is missing from the event payload. Required fields are never
defaulted.

## Required fields:
- ` + "`awsAccountId`, `region`, `resourceType`, `resourceTypeVersion`, `stackId`" + `
- ` + "`requestData.logicalResourceId`, `requestData.resourceProperties`, `requestData.systemTags`",
	}

	issues = map[Id]*Issue{
		projectNotFoundIssue.Id():         projectNotFoundIssue,
		projectConfigInvalidIssue.Id():    projectConfigInvalidIssue,
		supportArtifactMissingIssue.Id():  supportArtifactMissingIssue,
		downstreamBuildFailedIssue.Id():   downstreamBuildFailedIssue,
		containerEngineNotFoundIssue.Id(): containerEngineNotFoundIssue,
		fileExistsIssue.Id():              fileExistsIssue,
		schemaInvalidIssue.Id():           schemaInvalidIssue,
		configLoadFailedIssue.Id():        configLoadFailedIssue,
		malformedRequestIssue.Id():        malformedRequestIssue,
	}
)

func Get(id Id) *Issue {
	return issues[id]
}
