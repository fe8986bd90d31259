package imagebuild

import (
	"fmt"

	"github.com/cluster-deployment-automation/gocli/gitsync"
	"github.com/cluster-deployment-automation/gocli/matrix"
	mocks "github.com/cluster-deployment-automation/gocli/utils/mock"
)

func AddExpectCallsFullBuild(r *mocks.MockRunner, spec matrix.BuildSpec, registry, dir, commit string) string {
	fullTag := fmt.Sprintf("%s/%s:%s", registry, spec.Component, spec.Release)
	gitsync.AddExpectCallsFreshClone(r, spec.SourceURL, dir, spec.Release, spec.Branch, commit)
	r.EXPECT().Command(fmt.Sprintf("podman build -t %s -f %s %s", fullTag, spec.Dockerfile, dir))
	r.EXPECT().Command("podman push " + fullTag)
	return fullTag
}

func AddExpectCallsExistingImage(r *mocks.MockRunner, fullTag string) {
	r.EXPECT().CommandWithOutput("podman images -q " + fullTag).Return("cafecafecafe\n", nil)
}
