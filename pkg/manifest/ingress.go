package manifest

import (
	networkingv1 "k8s.io/api/networking/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// rewriteTargetAnnotation makes ingress-nginx rewrite the matched path to /
// before forwarding to the backend.
const rewriteTargetAnnotation = "nginx.ingress.kubernetes.io/rewrite-target"

// IngressName returns the name of the ingress record for a service.
func IngressName(service string) string {
	return service + "-ingress"
}

// IngressHost returns the host rule for a service under the wildcard domain.
func IngressHost(service, domainSuffix string) string {
	return service + "." + domainSuffix
}

// ServiceIngress builds the ingress record exposing a service: a single host
// rule <service>.<domainSuffix> routing / (prefix match, rewritten to /) to
// <service>:<port>.
func ServiceIngress(service string, port int32, domainSuffix string) *networkingv1.Ingress {
	pathType := networkingv1.PathTypePrefix

	return &networkingv1.Ingress{
		TypeMeta: metav1.TypeMeta{
			Kind:       "Ingress",
			APIVersion: "networking.k8s.io/v1",
		},
		ObjectMeta: metav1.ObjectMeta{
			Name: IngressName(service),
			Annotations: map[string]string{
				rewriteTargetAnnotation: "/",
			},
		},
		Spec: networkingv1.IngressSpec{
			Rules: []networkingv1.IngressRule{
				{
					Host: IngressHost(service, domainSuffix),
					IngressRuleValue: networkingv1.IngressRuleValue{
						HTTP: &networkingv1.HTTPIngressRuleValue{
							Paths: []networkingv1.HTTPIngressPath{
								{
									Path:     "/",
									PathType: &pathType,
									Backend: networkingv1.IngressBackend{
										Service: &networkingv1.IngressServiceBackend{
											Name: service,
											Port: networkingv1.ServiceBackendPort{
												Number: port,
											},
										},
									},
								},
							},
						},
					},
				},
			},
		},
	}
}
