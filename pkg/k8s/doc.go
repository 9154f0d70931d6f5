// Package k8s provides Kubernetes client configuration and cluster access
// utilities.
//
// This package offers the reusable building blocks slipway needs to talk to a
// cluster: REST config construction, manifest application, deployment
// readiness polling, and small queries against core resources.
//
// Key features:
//   - REST config building from kubeconfig files (BuildRESTConfig)
//   - Clientset creation (NewClientset)
//   - Server-side apply of manifests and typed objects (Applier)
//   - Deployment patching and readiness polling (PatchDeployment,
//     WaitForDeploymentReady)
//   - Service, namespace, and version queries (ServiceFirstPort,
//     ListNamespaces, ServerVersion)
//   - Node annotation (AnnotateNode)
package k8s
