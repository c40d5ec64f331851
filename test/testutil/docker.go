package testutil

import (
	"context"
	"fmt"
	"os"

	"github.com/fhuszti/videos-ms-go/internal/logger"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
)

// container is a throwaway docker resource removed when the suite ends.
type container struct {
	pool     *dockertest.Pool
	resource *dockertest.Resource
}

// startContainer runs repository:tag, where tag can be overridden through
// tagEnv so CI can pin the same versions as production.
func startContainer(repository, tag, tagEnv string, env, cmd []string) (*container, error) {
	if v := os.Getenv(tagEnv); v != "" {
		tag = v
	}

	pool, err := dockertest.NewPool("")
	if err != nil {
		return nil, fmt.Errorf("could not connect to docker: %w", err)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: repository,
		Tag:        tag,
		Env:        env,
		Cmd:        cmd,
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		return nil, fmt.Errorf("could not start %s container: %w", repository, err)
	}
	return &container{pool: pool, resource: resource}, nil
}

func (c *container) hostPort(internal string) string {
	return "localhost:" + c.resource.GetPort(internal)
}

// waitReady retries ready until it succeeds, purging the container when it never does.
func (c *container) waitReady(name string, ready func() error) error {
	if err := c.pool.Retry(ready); err != nil {
		_ = c.pool.Purge(c.resource)
		return fmt.Errorf("%s did not become ready: %w", name, err)
	}
	return nil
}

func (c *container) purger(name string) func() {
	return func() {
		if err := c.pool.Purge(c.resource); err != nil {
			logger.Warnf(context.Background(), "could not purge %s container: %s", name, err)
		}
	}
}
