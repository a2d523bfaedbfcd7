package profiles

import (
	"context"

	"github.com/containers/lxd-bindings/pkg/bindings"
	"github.com/containers/lxd-bindings/pkg/domain/entities"
)

func collection(conn *bindings.Connection) bindings.Endpoint {
	return conn.API().Segment("profiles")
}

// List returns the names of all profiles.
func List(ctx context.Context) ([]string, error) {
	conn, err := bindings.GetClient(ctx)
	if err != nil {
		return nil, err
	}
	response, err := collection(conn).Get(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	var urls []string
	if err := response.Process(&urls); err != nil {
		return nil, err
	}
	return bindings.IDsFromURLs(urls), nil
}

// Get returns a profile together with the containers using it.
func Get(ctx context.Context, name string) (*entities.Profile, error) {
	conn, err := bindings.GetClient(ctx)
	if err != nil {
		return nil, err
	}
	response, err := collection(conn).Index(name).Get(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	profile := entities.Profile{}
	return &profile, response.Process(&profile)
}

// Exists reports whether a profile is defined.
func Exists(ctx context.Context, name string) (bool, error) {
	_, err := Get(ctx, name)
	if err != nil {
		if bindings.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Create defines a new profile.
func Create(ctx context.Context, name string, put entities.ProfilePut) error {
	conn, err := bindings.GetClient(ctx)
	if err != nil {
		return err
	}
	response, err := collection(conn).Post(ctx, bindings.JSON(entities.ProfilesPost{ProfilePut: put, Name: name}), nil)
	if err != nil {
		return err
	}
	defer response.Body.Close()
	return response.Process(nil)
}

// Update replaces the configuration and devices of a profile.
func Update(ctx context.Context, name string, put entities.ProfilePut) error {
	conn, err := bindings.GetClient(ctx)
	if err != nil {
		return err
	}
	response, err := collection(conn).Index(name).Put(ctx, bindings.JSON(put))
	if err != nil {
		return err
	}
	defer response.Body.Close()
	return response.Process(nil)
}

// Rename renames a profile. The default profile cannot be renamed.
func Rename(ctx context.Context, name, newName string) error {
	conn, err := bindings.GetClient(ctx)
	if err != nil {
		return err
	}
	response, err := collection(conn).Index(name).Post(ctx, bindings.JSON(entities.ProfilePost{Name: newName}), nil)
	if err != nil {
		return err
	}
	defer response.Body.Close()
	return response.Process(nil)
}

// Remove deletes a profile that no container uses.
func Remove(ctx context.Context, name string) error {
	conn, err := bindings.GetClient(ctx)
	if err != nil {
		return err
	}
	response, err := collection(conn).Index(name).Delete(ctx)
	if err != nil {
		return err
	}
	defer response.Body.Close()
	return response.Process(nil)
}
