package k8s

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/types"
	utilyaml "k8s.io/apimachinery/pkg/util/yaml"
	"k8s.io/client-go/discovery"
	"k8s.io/client-go/discovery/cached/memory"
	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/restmapper"
)

// FieldManager identifies slipway as the owner of server-side applied fields.
const FieldManager = "slipway"

// yamlBufferSize is the read-ahead buffer for the multi-document YAML decoder.
const yamlBufferSize = 4096

// Applier applies Kubernetes manifests with server-side apply. Conflicts are
// forced so that re-running the same apply always converges.
type Applier struct {
	client dynamic.Interface
	mapper meta.RESTMapper
}

// NewApplier creates an Applier from existing clients.
func NewApplier(client dynamic.Interface, mapper meta.RESTMapper) *Applier {
	return &Applier{client: client, mapper: mapper}
}

// NewApplierForConfig creates an Applier with a dynamic client and a
// discovery-backed REST mapper for the given REST config.
func NewApplierForConfig(restConfig *rest.Config) (*Applier, error) {
	discoveryClient, err := discovery.NewDiscoveryClientForConfig(restConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create discovery client: %w", err)
	}

	mapper := restmapper.NewDeferredDiscoveryRESTMapper(memory.NewMemCacheClient(discoveryClient))

	dynamicClient, err := dynamic.NewForConfig(restConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create dynamic client: %w", err)
	}

	return NewApplier(dynamicClient, mapper), nil
}

// Apply applies every document in a multi-document YAML or JSON manifest and
// returns the number of objects applied. Empty documents are skipped.
func (a *Applier) Apply(ctx context.Context, manifest []byte) (int, error) {
	decoder := utilyaml.NewYAMLOrJSONDecoder(bytes.NewReader(manifest), yamlBufferSize)

	applied := 0

	for docIndex := 0; ; docIndex++ {
		var obj unstructured.Unstructured

		err := decoder.Decode(&obj)
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return applied, fmt.Errorf("failed to decode manifest document %d: %w", docIndex, err)
		}

		if len(obj.Object) == 0 {
			continue
		}

		err = a.applyUnstructured(ctx, &obj)
		if err != nil {
			return applied, fmt.Errorf(
				"failed to apply %s %s/%s: %w",
				obj.GetKind(), obj.GetNamespace(), obj.GetName(), err,
			)
		}

		applied++
	}

	return applied, nil
}

// ApplyObject applies a single typed object. The object's TypeMeta must be
// populated so its API group and kind can be resolved.
func (a *Applier) ApplyObject(ctx context.Context, obj runtime.Object) error {
	converted, err := runtime.DefaultUnstructuredConverter.ToUnstructured(obj)
	if err != nil {
		return fmt.Errorf("failed to convert object to unstructured: %w", err)
	}

	target := &unstructured.Unstructured{Object: converted}

	err = a.applyUnstructured(ctx, target)
	if err != nil {
		return fmt.Errorf(
			"failed to apply %s %s/%s: %w",
			target.GetKind(), target.GetNamespace(), target.GetName(), err,
		)
	}

	return nil
}

// applyUnstructured maps the object's group/version/kind to a resource and
// patches it with server-side apply.
func (a *Applier) applyUnstructured(ctx context.Context, obj *unstructured.Unstructured) error {
	gvk := obj.GroupVersionKind()
	if gvk.Kind == "" {
		return ErrObjectKindMissing
	}

	if obj.GetName() == "" {
		return ErrObjectNameMissing
	}

	mapping, err := a.mapper.RESTMapping(gvk.GroupKind(), gvk.Version)
	if err != nil {
		return fmt.Errorf("failed to get REST mapping for %v: %w", gvk, err)
	}

	resource := a.client.Resource(mapping.Resource)

	var target dynamic.ResourceInterface = resource

	if mapping.Scope.Name() == meta.RESTScopeNameNamespace {
		namespace := obj.GetNamespace()
		if namespace == "" {
			namespace = metav1.NamespaceDefault
		}

		target = resource.Namespace(namespace)
	}

	data, err := obj.MarshalJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal object to JSON: %w", err)
	}

	force := true

	_, err = target.Patch(ctx, obj.GetName(), types.ApplyPatchType, data, metav1.PatchOptions{
		FieldManager: FieldManager,
		Force:        &force,
	})
	if err != nil {
		return fmt.Errorf("server-side apply failed: %w", err)
	}

	return nil
}
