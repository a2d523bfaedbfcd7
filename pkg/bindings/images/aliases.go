package images

import (
	"context"

	"github.com/containers/lxd-bindings/pkg/bindings"
	"github.com/containers/lxd-bindings/pkg/domain/entities"
)

func aliases(conn *bindings.Connection) bindings.Endpoint {
	return collection(conn).Segment("aliases")
}

// ListAliases returns the names of all image aliases.
func ListAliases(ctx context.Context) ([]string, error) {
	conn, err := bindings.GetClient(ctx)
	if err != nil {
		return nil, err
	}
	response, err := aliases(conn).Get(ctx, nil)
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

// GetAlias returns an alias and the fingerprint it points to.
func GetAlias(ctx context.Context, name string) (*entities.ImageAliasesEntry, error) {
	conn, err := bindings.GetClient(ctx)
	if err != nil {
		return nil, err
	}
	response, err := aliases(conn).Index(name).Get(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	alias := entities.ImageAliasesEntry{}
	return &alias, response.Process(&alias)
}

// AliasExists reports whether an alias is defined.
func AliasExists(ctx context.Context, name string) (bool, error) {
	_, err := GetAlias(ctx, name)
	if err != nil {
		if bindings.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// CreateAlias binds name to the image with the given fingerprint.
func CreateAlias(ctx context.Context, name, target, description string) error {
	conn, err := bindings.GetClient(ctx)
	if err != nil {
		return err
	}
	body := entities.ImageAliasesPost{ImageAliasesEntry: entities.ImageAliasesEntry{
		Name:                 name,
		ImageAliasesEntryPut: entities.ImageAliasesEntryPut{Target: target, Description: description},
	}}
	response, err := aliases(conn).Post(ctx, bindings.JSON(body), nil)
	if err != nil {
		return err
	}
	defer response.Body.Close()
	return response.Process(nil)
}

// UpdateAlias points an alias at another image or changes its description.
func UpdateAlias(ctx context.Context, name string, put entities.ImageAliasesEntryPut) error {
	conn, err := bindings.GetClient(ctx)
	if err != nil {
		return err
	}
	response, err := aliases(conn).Index(name).Put(ctx, bindings.JSON(put))
	if err != nil {
		return err
	}
	defer response.Body.Close()
	return response.Process(nil)
}

// RenameAlias renames an alias.
func RenameAlias(ctx context.Context, name, newName string) error {
	conn, err := bindings.GetClient(ctx)
	if err != nil {
		return err
	}
	response, err := aliases(conn).Index(name).Post(ctx, bindings.JSON(entities.ImageAliasesEntryPost{Name: newName}), nil)
	if err != nil {
		return err
	}
	defer response.Body.Close()
	return response.Process(nil)
}

// RemoveAlias deletes an alias. The image stays.
func RemoveAlias(ctx context.Context, name string) error {
	conn, err := bindings.GetClient(ctx)
	if err != nil {
		return err
	}
	response, err := aliases(conn).Index(name).Delete(ctx)
	if err != nil {
		return err
	}
	defer response.Body.Close()
	return response.Process(nil)
}
